package buildinglink

import (
	"context"
	"fmt"
	"time"

	"aptassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Announcement struct {
	Title    string
	Body     string
	PostedAt time.Time
}

// Announcements scrapes the tenant announcements page into records.
// entries whose posted date can't be parsed are kept with a zero time
// rather than dropped, since the text is still useful.
func (c *Client) Announcements(ctx context.Context) ([]Announcement, error) {
	ctx, span := tracer.Start(ctx, "client:Announcements")
	defer span.End()

	res, err := c.Page(ctx, "Announcements/Announcements.aspx", FetchOptions{})
	if err != nil {
		return nil, err
	}
	if res.Document == nil {
		return nil, fmt.Errorf("announcements page was not html: %s", res.Url)
	}

	var announcements []Announcement
	res.Document.Find("div.announcement-item").Each(func(_ int, item *goquery.Selection) {
		title := htmlutil.CleanText(item.Find(".announcement-title").Text())
		body := htmlutil.CleanText(item.Find(".announcement-body").Text())

		var postedAt time.Time
		dateText := htmlutil.CleanText(item.Find(".announcement-date").Text())
		if parsed, err := time.Parse("1/2/2006", dateText); err == nil {
			postedAt = parsed
		}

		announcements = append(announcements, Announcement{
			Title:    title,
			Body:     body,
			PostedAt: postedAt,
		})
	})
	return announcements, nil
}
