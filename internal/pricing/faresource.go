package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/voyago/fareopt/internal/models"
)

// FareSource is the injected pricing capability: one lookup per candidate
// tuple against the external fare provider. Implementations return the
// cheapest offer for the tuple, ErrNoItinerary when the route/date has no
// service, and SourceError for provider-level failures.
type FareSource interface {
	Name() string
	FetchFare(ctx context.Context, tuple models.CandidateTuple) (*models.PriceQuote, error)
}

// ErrNoItinerary signals a well-formed query for which no itinerary
// exists. It is an expected outcome, not a failure.
var ErrNoItinerary = errors.New("no itinerary for route and date")

// SourceError carries the provider's transport-level status so the client
// can classify it.
type SourceError struct {
	Source     string
	StatusCode int
	Message    string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Source, e.StatusCode, e.Message)
}
