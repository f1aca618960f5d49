package buildinglink

import "context"

type Vendor struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// Vendors lists the service vendors registered with the building.
func (c *Client) Vendors(ctx context.Context) ([]Vendor, error) {
	ctx, span := tracer.Start(ctx, "client:Vendors")
	defer span.End()

	res, err := c.Api(ctx, "/v1/vendors", FetchOptions{})
	if err != nil {
		return nil, err
	}
	return decodeApi[[]Vendor](res)
}
