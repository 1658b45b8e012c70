package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/fareopt/internal/aggregate"
	"github.com/voyago/fareopt/internal/cache"
	"github.com/voyago/fareopt/internal/expand"
	"github.com/voyago/fareopt/internal/generate"
	"github.com/voyago/fareopt/internal/models"
	"github.com/voyago/fareopt/internal/pricing"
	"github.com/voyago/fareopt/internal/ratelimit"
	"github.com/voyago/fareopt/internal/scheduler"
)

type Config struct {
	Workers     int
	CallTimeout time.Duration
	RetryMax    int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	Deadline    time.Duration
	TupleCap    int
	AirportTopK int
	Limiter     *ratelimit.SourceLimiter
}

func DefaultConfig() Config {
	return Config{
		Workers:     4,
		CallTimeout: 8 * time.Second,
		RetryMax:    2,
		BackoffBase: 200 * time.Millisecond,
		BackoffCap:  2 * time.Second,
		Deadline:    25 * time.Second,
		TupleCap:    64,
		AirportTopK: 3,
	}
}

// Optimizer is the engine's single entry point. One instance owns one
// search session: repeated Optimize calls share the session's cache
// entries, and a new instance starts clean.
type Optimizer struct {
	expander  *expand.Expander
	scheduler *scheduler.Scheduler
	cfg       Config
	sessionID string
}

func New(source pricing.FareSource, resolver expand.LocationResolver, c cache.Cache, cfg Config) *Optimizer {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	sched := scheduler.New(pricing.NewClient(source), c, scheduler.Config{
		Workers:     cfg.Workers,
		CallTimeout: cfg.CallTimeout,
		RetryMax:    cfg.RetryMax,
		BackoffBase: cfg.BackoffBase,
		BackoffCap:  cfg.BackoffCap,
		Deadline:    cfg.Deadline,
		Limiter:     cfg.Limiter,
	})
	return &Optimizer{
		expander:  expand.New(resolver, cfg.AirportTopK),
		scheduler: sched,
		cfg:       cfg,
		sessionID: uuid.NewString(),
	}
}

// Optimize explores the viable airport/date combinations for the request
// and returns the cheapest surviving itinerary under the tie-break policy.
// It fails synchronously only on an invalid request or an unresolvable
// location; per-tuple failures are absorbed into the result counts.
func (o *Optimizer) Optimize(ctx context.Context, req models.SearchRequest) (*models.OptimizationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exp, err := o.expander.Expand(ctx, req)
	if err != nil {
		return nil, err
	}

	gen := generate.New(exp, req, o.cfg.TupleCap)
	log.Printf("search %s: %d origins x %d destinations x %d dates -> %d tuples",
		o.sessionID, len(exp.Origins), len(exp.Destinations), len(exp.Dates), gen.Count())

	report, err := o.scheduler.Run(ctx, gen, o.sessionID)
	if err != nil {
		return nil, err
	}

	summary := aggregate.Summarize(report.Outcomes, aggregate.Constraints{
		MaxPrice:   req.MaxPrice,
		MaxStops:   req.MaxStops,
		DirectOnly: req.DirectOnly,
	})

	return &models.OptimizationResult{
		Best:             summary.Best,
		Attempted:        len(report.Outcomes),
		Succeeded:        summary.Succeeded,
		Failed:           summary.Failed,
		NotFound:         summary.NotFound,
		DeadlineExceeded: report.DeadlineExceeded,
		FatalReasons:     summary.FatalReasons,
	}, nil
}
