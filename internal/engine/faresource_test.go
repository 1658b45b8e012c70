package engine

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/fareopt/internal/expand"
	"github.com/voyago/fareopt/internal/models"
	"github.com/voyago/fareopt/internal/pricing"
)

// identityResolver maps airport codes to themselves, the common case when
// the caller already extracted IATA codes.
type identityResolver struct{}

func (identityResolver) Resolve(ctx context.Context, hint string) ([]string, error) {
	if len(hint) != 3 {
		return nil, expand.ErrNotFound
	}
	return []string{hint}, nil
}

type fakeQuote struct {
	price   int64
	stops   int
	elapsed time.Duration
}

// fakeSource is an in-memory fare source keyed by origin|destination|date.
// Keys absent from every map price as NotFound. transientN makes the first
// n calls for a key fail with a 503; fatal keys always fail with a 400.
type fakeSource struct {
	mu         sync.Mutex
	calls      int
	perKey     map[string]int
	quotes     map[string]fakeQuote
	fatals     map[string]bool
	transientN map[string]int
	block      bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		perKey:     make(map[string]int),
		quotes:     make(map[string]fakeQuote),
		fatals:     make(map[string]bool),
		transientN: make(map[string]int),
	}
}

func fareKey(origin, destination string, departure time.Time) string {
	return origin + "|" + destination + "|" + departure.Format("2006-01-02")
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchFare(ctx context.Context, tuple models.CandidateTuple) (*models.PriceQuote, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	k := fareKey(tuple.Origin, tuple.Destination, tuple.Departure)
	f.perKey[k]++

	if f.perKey[k] <= f.transientN[k] {
		return nil, &pricing.SourceError{Source: "fake", StatusCode: 503, Message: "upstream unavailable"}
	}
	if f.fatals[k] {
		return nil, &pricing.SourceError{Source: "fake", StatusCode: 400, Message: "unsupported route"}
	}
	q, ok := f.quotes[k]
	if !ok {
		return nil, nil
	}
	return &models.PriceQuote{
		Tuple:    tuple,
		Total:    decimal.NewFromInt(q.price),
		Currency: "USD",
		StopsOut: q.stops,
		Elapsed:  q.elapsed,
		OfferRef: "offer-" + k,
	}, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
