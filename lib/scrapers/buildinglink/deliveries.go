package buildinglink

import "context"

type Delivery struct {
	Id          int    `json:"id"`
	Description string `json:"description"`
	ReceivedAt  string `json:"receivedAt"`
	PickedUpAt  string `json:"pickedUpAt"`
	Carrier     string `json:"carrier"`
}

// Deliveries lists packages logged at the front desk for the occupant.
func (c *Client) Deliveries(ctx context.Context) ([]Delivery, error) {
	ctx, span := tracer.Start(ctx, "client:Deliveries")
	defer span.End()

	res, err := c.Api(ctx, "/v1/deliveries/received", FetchOptions{})
	if err != nil {
		return nil, err
	}
	return decodeApi[[]Delivery](res)
}
