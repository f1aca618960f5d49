package buildinglink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aptassist-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

type LibraryDocument struct {
	Name string
	Href string
}

const libraryListingPath = "Library/Library.aspx"

const libraryListingLifetime = int64(time.Hour / time.Second)

// LibraryDocuments scrapes the document library listing. listings are
// cached in badger (when a cache was configured) since the library
// changes rarely and the page is one of the portal's slowest.
func (c *Client) LibraryDocuments(ctx context.Context) ([]LibraryDocument, error) {
	ctx, span := tracer.Start(ctx, "client:LibraryDocuments")
	defer span.End()

	cached, err := c.cache.get(tenantAreaPath + libraryListingPath)
	if err == nil {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return cached.Documents, nil
	}
	if err != errPageNotCached {
		span.RecordError(err)
		slog.WarnContext(ctx, "library cache read failed", "err", err)
	}

	res, err := c.Page(ctx, libraryListingPath, FetchOptions{})
	if err != nil {
		return nil, err
	}
	if res.Document == nil {
		return nil, fmt.Errorf("library page was not html: %s", res.Url)
	}

	anchors := htmlutil.GetAnchors(res.Document.Find("table.library-documents a"))
	documents := make([]LibraryDocument, 0, len(anchors))
	for _, a := range anchors {
		if a.Href == "" {
			continue
		}
		documents = append(documents, LibraryDocument{Name: a.Name, Href: a.Href})
	}

	err = c.cache.set(tenantAreaPath+libraryListingPath, cachedListing{
		Documents: documents,
		ExpiresAt: time.Now().Unix() + libraryListingLifetime,
	})
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "library cache write failed", "err", err)
	}

	return documents, nil
}
