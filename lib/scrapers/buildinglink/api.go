package buildinglink

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func decodeApi[T any](res *Response) (T, error) {
	var out T
	if res.StatusCode() != http.StatusOK {
		return out, fmt.Errorf("api request to %s failed: status %d", res.Url, res.StatusCode())
	}
	err := json.Unmarshal(res.Body(), &out)
	if err != nil {
		return out, fmt.Errorf("decode api response from %s: %w", res.Url, err)
	}
	return out, nil
}
