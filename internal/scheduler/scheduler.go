package scheduler

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voyago/fareopt/internal/cache"
	"github.com/voyago/fareopt/internal/generate"
	"github.com/voyago/fareopt/internal/metrics"
	"github.com/voyago/fareopt/internal/models"
	"github.com/voyago/fareopt/internal/pricing"
	"github.com/voyago/fareopt/internal/ratelimit"
)

type Config struct {
	// Workers bounds in-flight fare calls. Unbounded fan-out would trip
	// the provider's rate limits, so this is a hard pool size.
	Workers     int
	CallTimeout time.Duration
	RetryMax    int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	Deadline    time.Duration
	Limiter     *ratelimit.SourceLimiter
}

// Scheduler drives every candidate tuple to a fetch outcome: cache first,
// then the pricing client, retrying transient failures with exponential
// backoff. It is the only component that performs concurrent I/O.
type Scheduler struct {
	client *pricing.Client
	cache  cache.Cache
	cfg    Config
}

// Report is the raw material for aggregation. Outcomes holds one entry per
// tuple dispatched before the deadline; tuples never dispatched are simply
// absent.
type Report struct {
	Outcomes         []models.FetchOutcome
	DeadlineExceeded bool
}

func New(client *pricing.Client, c cache.Cache, cfg Config) *Scheduler {
	return &Scheduler{
		client: client,
		cache:  c,
		cfg:    cfg,
	}
}

// Run evaluates the generator's sequence under the overall deadline.
// Hitting the deadline is not an error: dispatch stops, in-flight calls are
// bounded by the per-call timeout, and whatever completed is returned. The
// only error is cancellation of the caller's own context.
func (s *Scheduler) Run(ctx context.Context, gen *generate.Generator, sessionID string) (*Report, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Deadline)
	defer cancel()

	var (
		mu       sync.Mutex
		outcomes = make([]models.FetchOutcome, 0, gen.Count())
	)

	g := &errgroup.Group{}
	g.SetLimit(s.cfg.Workers)

	deadlineHit := false
	for i := 0; i < gen.Count(); i++ {
		if runCtx.Err() != nil {
			deadlineHit = true
			break
		}

		tuple := gen.At(i)
		g.Go(func() error {
			outcome := s.evaluate(runCtx, tuple, sessionID)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if deadlineHit || runCtx.Err() != nil {
		deadlineHit = true
		metrics.DeadlineHits.Inc()
		log.Printf("search %s hit deadline after %v with %d/%d tuples evaluated",
			sessionID, s.cfg.Deadline, len(outcomes), gen.Count())
	}

	return &Report{
		Outcomes:         outcomes,
		DeadlineExceeded: deadlineHit,
	}, nil
}

func (s *Scheduler) evaluate(ctx context.Context, tuple models.CandidateTuple, sessionID string) models.FetchOutcome {
	key := sessionID + ":" + tuple.Key()

	if cached, ok := s.cache.Get(ctx, key); ok {
		metrics.CacheHits.Inc()
		// The cached outcome belongs to the tuple that produced it;
		// rebind the tuple so the sequence position stays this run's.
		cached.Tuple = tuple
		if cached.Quote != nil {
			q := *cached.Quote
			q.Tuple = tuple
			cached.Quote = &q
		}
		return cached
	}
	metrics.CacheMisses.Inc()

	outcome := s.fetchWithRetry(ctx, tuple)
	metrics.FetchOutcomes.WithLabelValues(string(outcome.Kind)).Inc()

	if outcome.Cacheable() {
		if err := s.cache.Put(ctx, key, outcome); err != nil {
			log.Printf("cache put failed for %s %s->%s: %v",
				sessionID, tuple.Origin, tuple.Destination, err)
		}
	}
	return outcome
}

func (s *Scheduler) fetchWithRetry(ctx context.Context, tuple models.CandidateTuple) models.FetchOutcome {
	var outcome models.FetchOutcome

	for attempt := 0; attempt <= s.cfg.RetryMax; attempt++ {
		if attempt > 0 {
			metrics.Retries.Inc()
			select {
			case <-time.After(s.backoff(attempt)):
			case <-ctx.Done():
				return models.Transient(tuple, ctx.Err().Error())
			}
		}

		if s.cfg.Limiter != nil {
			if err := s.cfg.Limiter.Wait(ctx, s.client.SourceName()); err != nil {
				return models.Transient(tuple, err.Error())
			}
		}

		outcome = s.client.Quote(ctx, tuple, s.cfg.CallTimeout)
		if outcome.Kind != models.OutcomeTransient {
			return outcome
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// Abandoned by the overall deadline, not a provider fault.
			return outcome
		}
	}

	// Retry budget spent: record it as fatal so aggregation excludes the
	// tuple without aborting the rest of the search.
	return models.Fatal(tuple, "retries exhausted: "+outcome.Reason)
}

// backoff returns the delay before the attempt-th retry: exponential from
// the base, capped, with +/-50% jitter so workers do not stampede a
// recovering provider.
func (s *Scheduler) backoff(attempt int) time.Duration {
	d := s.cfg.BackoffBase << (attempt - 1)
	if d > s.cfg.BackoffCap {
		d = s.cfg.BackoffCap
	}
	if d <= 0 {
		return 0
	}
	half := int64(d) / 2
	return time.Duration(half + rand.Int63n(int64(d)))
}
