package amadeus

import (
	"context"
	"net/url"
)

type locationsResponse struct {
	Data []struct {
		SubType  string `json:"subType"`
		IataCode string `json:"iataCode"`
	} `json:"data"`
}

// Resolve maps a keyword ("Bangkok", "BKK", "Thailand") to airport codes
// in the API's relevance order. City entries resolve through their own
// IATA code, which the offers endpoint accepts as a city search.
func (c *Client) Resolve(ctx context.Context, hint string) ([]string, error) {
	q := url.Values{}
	q.Set("keyword", hint)
	q.Set("subType", "CITY,AIRPORT")

	var resp locationsResponse
	if err := c.get(ctx, locationsPath, q, &resp); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(resp.Data))
	for _, loc := range resp.Data {
		if loc.IataCode != "" {
			codes = append(codes, loc.IataCode)
		}
	}
	return codes, nil
}
