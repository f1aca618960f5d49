package buildinglink

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type Event struct {
	Id       int    `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

// Events lists building calendar events in the given date range.
func (c *Client) Events(ctx context.Context, buildingId int, from, to time.Time) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "client:Events")
	defer span.End()

	query := url.Values{}
	query.Add("startDate", from.Format("2006-01-02"))
	query.Add("endDate", to.Format("2006-01-02"))

	path := fmt.Sprintf("/v1/buildings/%d/events?%s", buildingId, query.Encode())
	res, err := c.Api(ctx, path, FetchOptions{})
	if err != nil {
		return nil, err
	}
	return decodeApi[[]Event](res)
}
