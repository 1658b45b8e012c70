package aggregate

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/voyago/fareopt/internal/models"
)

// Constraints are the request's hard filters. A quote that violates any of
// them is discarded before ranking.
type Constraints struct {
	MaxPrice   *decimal.Decimal
	MaxStops   *int
	DirectOnly bool
}

// Summary is the aggregation of one report's outcomes. Succeeded counts
// priced tuples before constraint filtering, so a caller can tell "nothing
// priced" apart from "priced but nothing matched".
type Summary struct {
	Best         *models.PriceQuote
	Succeeded    int
	NotFound     int
	Failed       int
	FatalReasons []string
}

// Summarize filters and ranks the completed outcomes. The selection is
// independent of the order outcomes arrive in: Better is a total order
// (price, then stops, then elapsed time, then generator sequence), so any
// permutation of the input yields the same winner.
func Summarize(outcomes []models.FetchOutcome, cons Constraints) Summary {
	var s Summary
	var quotes []models.PriceQuote

	for _, o := range outcomes {
		switch o.Kind {
		case models.OutcomeSuccess:
			s.Succeeded++
			quotes = append(quotes, *o.Quote)
		case models.OutcomeNotFound:
			s.NotFound++
		case models.OutcomeFatal:
			s.Failed++
			s.FatalReasons = append(s.FatalReasons, o.Reason)
		case models.OutcomeTransient:
			// Abandoned at the deadline before its retries ran out.
			s.Failed++
		}
	}

	// Outcomes arrive in worker completion order. UniqBy keeps the first
	// occurrence, so canonicalize by sequence position first: the lowest-Seq
	// member of each identity group survives no matter how the workers
	// finished.
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].Tuple.Seq < quotes[j].Tuple.Seq
	})
	quotes = lo.UniqBy(quotes, func(q models.PriceQuote) string {
		return q.Identity()
	})

	for _, q := range quotes {
		if !satisfies(q, cons) {
			continue
		}
		if s.Best == nil || Better(q, *s.Best) {
			best := q
			s.Best = &best
		}
	}
	return s
}

func satisfies(q models.PriceQuote, cons Constraints) bool {
	if cons.MaxPrice != nil && q.Total.GreaterThan(*cons.MaxPrice) {
		return false
	}
	maxStops := cons.MaxStops
	if cons.DirectOnly {
		zero := 0
		maxStops = &zero
	}
	if maxStops != nil && q.TotalStops() > *maxStops {
		return false
	}
	return true
}

// Better reports whether a beats b: lowest total price, then fewest total
// stops, then shortest elapsed travel time, then earliest position in the
// generator's sequence. The last rung makes the order strict, which keeps
// the winner stable across runs and completion orders.
func Better(a, b models.PriceQuote) bool {
	if c := a.Total.Cmp(b.Total); c != 0 {
		return c < 0
	}
	if a.TotalStops() != b.TotalStops() {
		return a.TotalStops() < b.TotalStops()
	}
	if a.Elapsed != b.Elapsed {
		return a.Elapsed < b.Elapsed
	}
	return a.Tuple.Seq < b.Tuple.Seq
}
