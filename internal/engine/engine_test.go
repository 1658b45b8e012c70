package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/voyago/fareopt/internal/cache"
	"github.com/voyago/fareopt/internal/models"
)

// baseDay returns a departure window anchored safely in the future so the
// expander's past-date truncation never interferes.
func baseDay() time.Time {
	now := time.Now().UTC().AddDate(0, 1, 0)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.CallTimeout = time.Second
	cfg.RetryMax = 2
	cfg.BackoffBase = time.Millisecond
	cfg.BackoffCap = 5 * time.Millisecond
	cfg.Deadline = 5 * time.Second
	return cfg
}

func testRequest(days int) models.SearchRequest {
	return models.SearchRequest{
		Origins:        []string{"JFK", "EWR"},
		Destinations:   []string{"CDG"},
		TripLengthDays: 5,
		RoundTrip:      true,
		WindowStart:    baseDay(),
		WindowEnd:      baseDay().AddDate(0, 0, days-1),
	}
}

func TestOptimizeWorkedExample(t *testing.T) {
	day := baseDay()
	src := newFakeSource()
	src.quotes[fareKey("JFK", "CDG", day)] = fakeQuote{price: 600, stops: 0, elapsed: 8 * time.Hour}
	src.quotes[fareKey("EWR", "CDG", day)] = fakeQuote{price: 550, stops: 1, elapsed: 9 * time.Hour}
	src.quotes[fareKey("JFK", "CDG", day.AddDate(0, 0, 1))] = fakeQuote{price: 550, stops: 0, elapsed: 8 * time.Hour}

	o := New(src, identityResolver{}, nil, testConfig())
	result, err := o.Optimize(context.Background(), testRequest(3))
	require.NoError(t, err)

	// JFK on day two ties EWR on day one at 550 but has fewer stops.
	require.NotNil(t, result.Best)
	require.Equal(t, "JFK", result.Best.Tuple.Origin)
	require.Equal(t, day.AddDate(0, 0, 1), result.Best.Tuple.Departure)
	require.True(t, result.Best.Total.Equal(decimal.NewFromInt(550)))

	require.Equal(t, models.DispositionFound, result.Disposition())
	require.Equal(t, 6, result.Attempted)
	require.Equal(t, 3, result.Succeeded)
	require.Equal(t, 3, result.NotFound)
	require.Equal(t, 0, result.Failed)
	require.False(t, result.DeadlineExceeded)

	// Round trip: return date is exactly departure + trip length.
	require.NotNil(t, result.Best.Tuple.Return)
	require.Equal(t, result.Best.Tuple.Departure.AddDate(0, 0, 5), *result.Best.Tuple.Return)
}

func TestOptimizeCacheLaw(t *testing.T) {
	day := baseDay()
	src := newFakeSource()
	src.quotes[fareKey("JFK", "CDG", day)] = fakeQuote{price: 600, elapsed: 8 * time.Hour}

	c := cache.NewMemoryCache(150*time.Millisecond, 0)
	defer c.Close()

	req := testRequest(1)
	req.Origins = []string{"JFK"}

	o := New(src, identityResolver{}, c, testConfig())

	first, err := o.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, first.Best)
	require.Equal(t, 1, src.Calls())

	// Within TTL the tuple is served from the cache; the source must not
	// be queried again.
	second, err := o.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, src.Calls())
	require.Equal(t, first.Best.Total, second.Best.Total)

	// After expiry it must be refetched.
	time.Sleep(200 * time.Millisecond)
	_, err = o.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, src.Calls())
}

func TestOptimizeCacheIsSessionScoped(t *testing.T) {
	day := baseDay()
	src := newFakeSource()
	src.quotes[fareKey("JFK", "CDG", day)] = fakeQuote{price: 600, elapsed: 8 * time.Hour}

	c := cache.NewMemoryCache(time.Minute, 0)
	defer c.Close()

	req := testRequest(1)
	req.Origins = []string{"JFK"}

	_, err := New(src, identityResolver{}, c, testConfig()).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, src.Calls())

	// A fresh optimizer is a fresh session: no cross-session reuse.
	_, err = New(src, identityResolver{}, c, testConfig()).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, src.Calls())
}

func TestOptimizeCachesFatalOutcomes(t *testing.T) {
	day := baseDay()
	src := newFakeSource()
	src.fatals[fareKey("JFK", "CDG", day)] = true

	c := cache.NewMemoryCache(time.Minute, 0)
	defer c.Close()

	req := testRequest(1)
	req.Origins = []string{"JFK"}

	o := New(src, identityResolver{}, c, testConfig())
	result, err := o.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	callsAfterFirst := src.Calls()

	// The fatal outcome is memoized: no point re-deriving it.
	result, err = o.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, callsAfterFirst, src.Calls())
}

func TestOptimizePartialFailureResilience(t *testing.T) {
	day := baseDay()
	src := newFakeSource()

	// Ten dates, one route. Half fail transiently and recover within the
	// retry budget, two are fatal, three succeed immediately.
	for i := 0; i < 10; i++ {
		k := fareKey("JFK", "CDG", day.AddDate(0, 0, i))
		switch {
		case i < 5:
			src.transientN[k] = 2
			src.quotes[k] = fakeQuote{price: int64(700 - i), elapsed: 8 * time.Hour}
		case i < 7:
			src.fatals[k] = true
		default:
			src.quotes[k] = fakeQuote{price: int64(600 - i), elapsed: 8 * time.Hour}
		}
	}

	req := testRequest(10)
	req.Origins = []string{"JFK"}

	result, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 10, result.Attempted)
	require.Equal(t, 8, result.Succeeded)
	require.Equal(t, 2, result.Failed)
	require.Len(t, result.FatalReasons, 2)

	require.NotNil(t, result.Best)
	require.True(t, result.Best.Total.Equal(decimal.NewFromInt(591)), "got %s", result.Best.Total)
}

func TestOptimizeRetryExhaustionIsFatal(t *testing.T) {
	day := baseDay()
	src := newFakeSource()
	k := fareKey("JFK", "CDG", day)
	src.transientN[k] = 100
	src.quotes[k] = fakeQuote{price: 500}

	req := testRequest(1)
	req.Origins = []string{"JFK"}

	result, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 0, result.Succeeded)
	require.Equal(t, models.DispositionInconclusive, result.Disposition())
	require.Contains(t, result.FatalReasons[0], "retries exhausted")
	// Initial attempt plus RetryMax retries, nothing more.
	require.Equal(t, 3, src.Calls())
}

func TestOptimizeDeadline(t *testing.T) {
	src := newFakeSource()
	src.block = true

	cfg := testConfig()
	cfg.Workers = 2
	cfg.Deadline = 200 * time.Millisecond
	cfg.CallTimeout = 10 * time.Second

	req := testRequest(3)

	start := time.Now()
	result, err := New(src, identityResolver{}, nil, cfg).Optimize(context.Background(), req)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Less(t, elapsed, 1500*time.Millisecond)
	require.True(t, result.DeadlineExceeded)
	require.Equal(t, 0, result.Succeeded)
	// Undispatched tuples are not counted as attempted.
	require.LessOrEqual(t, result.Attempted, 6)
	require.Equal(t, models.DispositionInconclusive, result.Disposition())
}

func TestOptimizeDispositions(t *testing.T) {
	day := baseDay()

	t.Run("no itinerary exists", func(t *testing.T) {
		src := newFakeSource()
		req := testRequest(2)
		result, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
		require.NoError(t, err)
		require.Nil(t, result.Best)
		require.Equal(t, models.DispositionNoItinerary, result.Disposition())
	})

	t.Run("constraints filter everything", func(t *testing.T) {
		src := newFakeSource()
		src.quotes[fareKey("JFK", "CDG", day)] = fakeQuote{price: 900, stops: 2}

		req := testRequest(1)
		req.Origins = []string{"JFK"}
		maxPrice := decimal.NewFromInt(500)
		req.MaxPrice = &maxPrice

		result, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
		require.NoError(t, err)
		require.Nil(t, result.Best)
		require.Equal(t, 1, result.Succeeded)
		require.Equal(t, models.DispositionNoItinerary, result.Disposition())
	})

	t.Run("only failures", func(t *testing.T) {
		src := newFakeSource()
		src.fatals[fareKey("JFK", "CDG", day)] = true

		req := testRequest(1)
		req.Origins = []string{"JFK"}

		result, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, models.DispositionInconclusive, result.Disposition())
	})
}

func TestOptimizeRejectsInvalidRequestBeforeAnyWork(t *testing.T) {
	src := newFakeSource()
	req := testRequest(1)
	req.Origins = nil

	_, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
	require.ErrorIs(t, err, models.ErrMissingOrigins)
	require.Equal(t, 0, src.Calls())
}

func TestOptimizeResolutionErrorSurfaces(t *testing.T) {
	src := newFakeSource()
	req := testRequest(1)
	req.Destinations = []string{"Atlantis"}

	_, err := New(src, identityResolver{}, nil, testConfig()).Optimize(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, 0, src.Calls())
}
