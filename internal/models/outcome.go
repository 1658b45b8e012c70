package models

// OutcomeKind classifies what happened when one candidate tuple was priced.
type OutcomeKind string

const (
	// OutcomeSuccess carries a priced itinerary.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeNotFound means the query was valid but no itinerary exists.
	// It is a normal outcome, not an error.
	OutcomeNotFound OutcomeKind = "not_found"
	// OutcomeTransient covers rate limits, timeouts and 5xx responses;
	// the scheduler retries these.
	OutcomeTransient OutcomeKind = "transient"
	// OutcomeFatal covers malformed or unsupported routes and retry
	// exhaustion; recorded and excluded from results, never retried.
	OutcomeFatal OutcomeKind = "fatal"
)

// FetchOutcome is produced exactly once per candidate tuple evaluated.
type FetchOutcome struct {
	Tuple  CandidateTuple `json:"tuple"`
	Kind   OutcomeKind    `json:"kind"`
	Quote  *PriceQuote    `json:"quote,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

func Success(t CandidateTuple, q PriceQuote) FetchOutcome {
	return FetchOutcome{Tuple: t, Kind: OutcomeSuccess, Quote: &q}
}

func NotFound(t CandidateTuple) FetchOutcome {
	return FetchOutcome{Tuple: t, Kind: OutcomeNotFound}
}

func Transient(t CandidateTuple, reason string) FetchOutcome {
	return FetchOutcome{Tuple: t, Kind: OutcomeTransient, Reason: reason}
}

func Fatal(t CandidateTuple, reason string) FetchOutcome {
	return FetchOutcome{Tuple: t, Kind: OutcomeFatal, Reason: reason}
}

// Cacheable reports whether the outcome may be written through to the
// result cache. Transient failures are expected to be retried and must
// never be memoized.
func (o FetchOutcome) Cacheable() bool {
	return o.Kind != OutcomeTransient
}
