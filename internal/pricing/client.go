package pricing

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/voyago/fareopt/internal/models"
)

// Client performs exactly one fare lookup per call and translates whatever
// the source did into the fetch-outcome taxonomy. It never retries; retry
// policy belongs to the scheduler, which knows the global budget.
type Client struct {
	source FareSource
}

func NewClient(source FareSource) *Client {
	return &Client{source: source}
}

func (c *Client) SourceName() string {
	return c.source.Name()
}

// Quote prices one tuple under the given per-call timeout.
//
// Classification: rate-limit (429) and 5xx responses, timeouts and other
// transport failures are transient; 4xx responses (malformed or
// unsupported route) are fatal; an empty result is NotFound; a priced
// itinerary is Success.
func (c *Client) Quote(ctx context.Context, tuple models.CandidateTuple, timeout time.Duration) models.FetchOutcome {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	quote, err := c.source.FetchFare(callCtx, tuple)
	if err != nil {
		return classify(tuple, err)
	}
	if quote == nil {
		return models.NotFound(tuple)
	}
	return models.Success(tuple, *quote)
}

func classify(tuple models.CandidateTuple, err error) models.FetchOutcome {
	if errors.Is(err, ErrNoItinerary) {
		return models.NotFound(tuple)
	}

	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		switch {
		case srcErr.StatusCode == http.StatusTooManyRequests:
			return models.Transient(tuple, err.Error())
		case srcErr.StatusCode >= 500:
			return models.Transient(tuple, err.Error())
		case srcErr.StatusCode >= 400:
			return models.Fatal(tuple, err.Error())
		}
	}

	// Timeouts, connection resets and anything else transport-shaped.
	return models.Transient(tuple, err.Error())
}
