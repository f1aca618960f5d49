package buildinglink

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestBuildings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/buildings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 12, "name": "The Metropolitan", "address": "425 Main St", "timeZone": "America/New_York"},
			{"id": 47, "name": "Riverside Towers", "address": "1 River Rd", "timeZone": "America/Chicago"}
		]`)
	})
	client, _ := setup(t, mux)
	client.Session.SetCookie(SessionCookieName, "opaque")

	buildings, err := client.Buildings(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Building{
		{Id: 12, Name: "The Metropolitan", Address: "425 Main St", TimeZone: "America/New_York"},
		{Id: 47, Name: "Riverside Towers", Address: "1 River Rd", TimeZone: "America/Chicago"},
	}, buildings)
}

func TestEventsQuery(t *testing.T) {
	var query atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/buildings/12/events", func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id": 3, "title": "Rooftop BBQ", "location": "Roof Deck"}]`)
	})
	client, _ := setup(t, mux)
	client.Session.SetCookie(SessionCookieName, "opaque")

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	events, err := client.Events(context.Background(), 12, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Rooftop BBQ", events[0].Title)
	require.Equal(t, "endDate=2024-06-30&startDate=2024-06-01", query.Load())
}

func TestAnnouncements(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/V2/Tenant/Announcements/Announcements.aspx", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body>
			<div class="announcement-item">
				<span class="announcement-title">Elevator maintenance</span>
				<span class="announcement-date">3/14/2024</span>
				<div class="announcement-body">Elevator B will be out of
				service   from 9am to noon.</div>
			</div>
		</body></html>`)
	})
	client, _ := setup(t, mux)
	client.Session.SetCookie(SessionCookieName, "opaque")

	announcements, err := client.Announcements(context.Background())
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	require.Equal(t, "Elevator maintenance", announcements[0].Title)
	require.Equal(t, "Elevator B will be out of service from 9am to noon.", announcements[0].Body)
	require.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), announcements[0].PostedAt)
}

func TestLibraryDocumentsCached(t *testing.T) {
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/V2/Tenant/Library/Library.aspx", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body>
			<table class="library-documents">
				<tr><td><a href="/docs/house-rules.pdf">House Rules</a></td></tr>
				<tr><td><a href="/docs/move-in.pdf">Move-in Guide</a></td></tr>
			</table>
		</body></html>`)
	})

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client, _ := setup(t, mux)
	client.cache.db = db
	client.Session.SetCookie(SessionCookieName, "opaque")

	documents, err := client.LibraryDocuments(context.Background())
	require.NoError(t, err)
	require.Equal(t, []LibraryDocument{
		{Name: "House Rules", Href: "/docs/house-rules.pdf"},
		{Name: "Move-in Guide", Href: "/docs/move-in.pdf"},
	}, documents)

	cachedDocuments, err := client.LibraryDocuments(context.Background())
	require.NoError(t, err)
	require.Equal(t, documents, cachedDocuments)
	require.Equal(t, int64(1), hits.Load())
}
