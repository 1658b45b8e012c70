package generate

import (
	"time"

	"github.com/voyago/fareopt/internal/expand"
	"github.com/voyago/fareopt/internal/models"
)

// Generator produces the finite, deduplicated sequence of candidate tuples
// for one search. The sequence is purely a function of its inputs: tuples
// are computed by index, so any number of consumers can walk it (or walk it
// twice) and see the same order. Ordering: outbound dates ascending, then
// origins and destinations in resolved input order.
type Generator struct {
	dates      []time.Time
	pairs      []pair
	tripLength int
	roundTrip  bool

	stride int
	count  int
}

type pair struct {
	origin, destination string
}

// New builds a generator over the expansion's cross product, bounded by
// cap. When the product exceeds cap, every stride-th tuple of the full
// sequence is kept instead. That sampling is deterministic but lossy: the
// skipped combinations are never priced.
func New(exp *expand.Expansion, req models.SearchRequest, cap int) *Generator {
	pairs := make([]pair, 0, len(exp.Origins)*len(exp.Destinations))
	for _, o := range exp.Origins {
		for _, d := range exp.Destinations {
			if o == d {
				continue
			}
			pairs = append(pairs, pair{origin: o, destination: d})
		}
	}

	g := &Generator{
		dates:      exp.Dates,
		pairs:      pairs,
		tripLength: req.TripLengthDays,
		roundTrip:  req.RoundTrip,
		stride:     1,
	}

	total := len(g.dates) * len(g.pairs)
	g.count = total
	if cap > 0 && total > cap {
		g.stride = (total + cap - 1) / cap
		g.count = (total + g.stride - 1) / g.stride
	}
	return g
}

// Count returns the number of tuples in the sequence, never above the cap.
func (g *Generator) Count() int {
	return g.count
}

// At returns the i-th tuple of the sequence, 0 <= i < Count().
func (g *Generator) At(i int) models.CandidateTuple {
	idx := i * g.stride
	dateIdx := idx / len(g.pairs)
	p := g.pairs[idx%len(g.pairs)]

	t := models.CandidateTuple{
		Origin:      p.origin,
		Destination: p.destination,
		Departure:   g.dates[dateIdx],
		Seq:         i,
	}
	if g.roundTrip {
		ret := t.Departure.AddDate(0, 0, g.tripLength)
		t.Return = &ret
	}
	return t
}

// All materializes the sequence, mainly for callers that want to log or
// inspect it; the scheduler pulls by index instead.
func (g *Generator) All() []models.CandidateTuple {
	tuples := make([]models.CandidateTuple, g.count)
	for i := range tuples {
		tuples[i] = g.At(i)
	}
	return tuples
}
