package expand

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/voyago/fareopt/internal/models"
)

// ErrNotFound is returned by resolvers when a hint matches zero known
// airports.
var ErrNotFound = errors.New("location not found")

// LocationResolver maps a free-form location hint ("Paris", "CDG",
// "Tokyo area") to airport codes ordered by relevance.
type LocationResolver interface {
	Resolve(ctx context.Context, hint string) ([]string, error)
}

// ResolutionError reports a hint or window that could not be expanded.
// It is surfaced to the caller synchronously and never retried.
type ResolutionError struct {
	Hint string
	Err  error
}

func (e *ResolutionError) Error() string {
	return "resolve " + e.Hint + ": " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Expansion holds the concrete airport and date sets a search request
// resolved to, in the order the generator will iterate them.
type Expansion struct {
	Origins      []string
	Destinations []string
	Dates        []time.Time
}

type Expander struct {
	resolver LocationResolver
	topK     int
	now      func() time.Time
}

// New builds an expander. topK caps the resolved airport set per side; an
// unbounded set would make the candidate space intractable, so the cap is
// part of the contract, not an optimization.
func New(resolver LocationResolver, topK int) *Expander {
	return &Expander{
		resolver: resolver,
		topK:     topK,
		now:      time.Now,
	}
}

// Expand resolves the request's location hints into airport codes and the
// outbound window into concrete dates. Dates already in the past are
// dropped; a window left empty by that truncation fails the whole search.
func (e *Expander) Expand(ctx context.Context, req models.SearchRequest) (*Expansion, error) {
	origins, err := e.resolveSet(ctx, req.Origins)
	if err != nil {
		return nil, err
	}
	destinations, err := e.resolveSet(ctx, req.Destinations)
	if err != nil {
		return nil, err
	}

	dates := e.expandWindow(req.WindowStart, req.WindowEnd)
	if len(dates) == 0 {
		return nil, &ResolutionError{
			Hint: req.WindowStart.Format("2006-01-02") + ".." + req.WindowEnd.Format("2006-01-02"),
			Err:  errors.New("no valid outbound dates in window"),
		}
	}

	return &Expansion{
		Origins:      origins,
		Destinations: destinations,
		Dates:        dates,
	}, nil
}

func (e *Expander) resolveSet(ctx context.Context, hints []string) ([]string, error) {
	var codes []string
	for _, hint := range hints {
		resolved, err := e.resolver.Resolve(ctx, hint)
		if err != nil {
			return nil, &ResolutionError{Hint: hint, Err: err}
		}
		if len(resolved) == 0 {
			return nil, &ResolutionError{Hint: hint, Err: ErrNotFound}
		}
		// Top-K per hint, in resolver relevance order.
		codes = append(codes, resolved[:min(len(resolved), e.topK)]...)
	}

	codes = lo.Uniq(codes)
	return codes[:min(len(codes), e.topK*len(hints))], nil
}

func (e *Expander) expandWindow(start, end time.Time) []time.Time {
	today := truncateToDay(e.now().UTC())

	var dates []time.Time
	for d := truncateToDay(start); !d.After(truncateToDay(end)); d = d.AddDate(0, 0, 1) {
		if d.Before(today) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
