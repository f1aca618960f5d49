package buildinglink

import (
	"context"
	"fmt"
)

type Building struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	TimeZone string `json:"timeZone"`
}

// Buildings lists the buildings visible to the logged-in occupant.
func (c *Client) Buildings(ctx context.Context) ([]Building, error) {
	ctx, span := tracer.Start(ctx, "client:Buildings")
	defer span.End()

	res, err := c.Api(ctx, "/v1/buildings", FetchOptions{})
	if err != nil {
		return nil, err
	}
	return decodeApi[[]Building](res)
}

type Occupant struct {
	Id         int    `json:"id"`
	UnitNumber string `json:"unitNumber"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
}

func (c *Client) Occupants(ctx context.Context, buildingId int) ([]Occupant, error) {
	ctx, span := tracer.Start(ctx, "client:Occupants")
	defer span.End()

	res, err := c.Api(ctx, fmt.Sprintf("/v1/buildings/%d/occupants", buildingId), FetchOptions{})
	if err != nil {
		return nil, err
	}
	return decodeApi[[]Occupant](res)
}
