package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is one priced itinerary for a candidate tuple. It is immutable
// once produced by the pricing client; OfferRef is an opaque provider
// reference carried through for downstream booking, never interpreted here.
type PriceQuote struct {
	Tuple       CandidateTuple  `json:"tuple"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	StopsOut    int             `json:"stops_out"`
	StopsReturn int             `json:"stops_return"`
	Elapsed     time.Duration   `json:"elapsed"`
	Carriers    []string        `json:"carriers,omitempty"`
	OfferRef    string          `json:"offer_ref,omitempty"`
}

func (q PriceQuote) TotalStops() int {
	return q.StopsOut + q.StopsReturn
}

// Identity returns the dedupe key for equivalent itineraries: the provider
// offer reference when present, otherwise the route/date digest.
func (q PriceQuote) Identity() string {
	if q.OfferRef != "" {
		return q.OfferRef
	}
	return q.Tuple.Key()
}
