package buildinglink

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// materializeHtml attaches the raw markup and a parsed document to HTML
// responses. it runs before the redirect and auth interceptors, which
// both read the document. responses that already carry materialized HTML
// pass through untouched so replacement responses aren't parsed twice.
func (c *Client) materializeHtml(ctx context.Context, res *Response) (*Response, error) {
	if res.Html != "" || res.Document != nil {
		return res, nil
	}
	contentType := res.Raw.Header().Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "html") {
		return res, nil
	}

	res.Html = string(res.Raw.Body())

	// portal markup is not guaranteed well-formed, so a parse failure
	// degrades to a raw-markup-only response instead of failing the fetch
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Html))
	if err != nil {
		slog.WarnContext(ctx, "failed to parse portal markup", "url", res.Url.String(), "err", err)
		return res, nil
	}
	res.Document = doc
	return res, nil
}
