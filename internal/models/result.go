package models

// Disposition is the caller-facing classification of a finished search.
// The three values must stay distinguishable so the caller can phrase a
// useful answer.
type Disposition string

const (
	// DispositionFound means Best holds the winning itinerary.
	DispositionFound Disposition = "found"
	// DispositionNoItinerary means the search ran but nothing matched:
	// either no itinerary exists or none satisfied the constraints.
	DispositionNoItinerary Disposition = "no_itinerary"
	// DispositionInconclusive means every priced tuple failed; the
	// absence of a result says nothing about the market.
	DispositionInconclusive Disposition = "inconclusive"
)

// OptimizationResult summarizes one optimize run. Only the winning quote
// and the counts survive aggregation; individual tuples are discarded.
type OptimizationResult struct {
	Best *PriceQuote `json:"best,omitempty"`

	Attempted        int      `json:"attempted"`
	Succeeded        int      `json:"succeeded"`
	Failed           int      `json:"failed"`
	NotFound         int      `json:"not_found"`
	DeadlineExceeded bool     `json:"deadline_exceeded"`
	FatalReasons     []string `json:"fatal_reasons,omitempty"`
}

func (r *OptimizationResult) Disposition() Disposition {
	switch {
	case r.Best != nil:
		return DispositionFound
	case r.Succeeded == 0 && r.Failed > 0:
		return DispositionInconclusive
	default:
		return DispositionNoItinerary
	}
}
