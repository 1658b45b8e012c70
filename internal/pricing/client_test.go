package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/voyago/fareopt/internal/models"
)

type stubSource struct {
	quote *models.PriceQuote
	err   error
	delay time.Duration
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) FetchFare(ctx context.Context, tuple models.CandidateTuple) (*models.PriceQuote, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.quote, s.err
}

func testTuple() models.CandidateTuple {
	return models.CandidateTuple{
		Origin:      "JFK",
		Destination: "CDG",
		Departure:   time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestQuoteClassification(t *testing.T) {
	quote := &models.PriceQuote{Total: decimal.NewFromInt(550), Currency: "USD"}

	cases := []struct {
		name   string
		source stubSource
		want   models.OutcomeKind
	}{
		{"priced itinerary", stubSource{quote: quote}, models.OutcomeSuccess},
		{"nil quote", stubSource{}, models.OutcomeNotFound},
		{"no itinerary sentinel", stubSource{err: ErrNoItinerary}, models.OutcomeNotFound},
		{"rate limited", stubSource{err: &SourceError{Source: "stub", StatusCode: 429, Message: "slow down"}}, models.OutcomeTransient},
		{"server error", stubSource{err: &SourceError{Source: "stub", StatusCode: 503, Message: "unavailable"}}, models.OutcomeTransient},
		{"malformed route", stubSource{err: &SourceError{Source: "stub", StatusCode: 400, Message: "bad route"}}, models.OutcomeFatal},
		{"unsupported itinerary", stubSource{err: &SourceError{Source: "stub", StatusCode: 422, Message: "unsupported"}}, models.OutcomeFatal},
		{"transport failure", stubSource{err: errors.New("connection reset")}, models.OutcomeTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(tc.source)
			outcome := c.Quote(context.Background(), testTuple(), time.Second)
			require.Equal(t, tc.want, outcome.Kind)
			if tc.want == models.OutcomeSuccess {
				require.NotNil(t, outcome.Quote)
				require.True(t, outcome.Quote.Total.Equal(decimal.NewFromInt(550)))
			} else {
				require.Nil(t, outcome.Quote)
			}
		})
	}
}

func TestQuoteTimeoutIsTransient(t *testing.T) {
	c := NewClient(stubSource{quote: &models.PriceQuote{}, delay: 200 * time.Millisecond})
	outcome := c.Quote(context.Background(), testTuple(), 20*time.Millisecond)
	require.Equal(t, models.OutcomeTransient, outcome.Kind)
}
