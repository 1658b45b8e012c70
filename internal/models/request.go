package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SearchRequest describes one flexible trip search: where the traveler may
// leave from and arrive at (IATA codes or free-form location hints, resolved
// by the expander), how long the trip is, and how far the outbound date may
// slide inside the window.
type SearchRequest struct {
	Origins        []string
	Destinations   []string
	TripLengthDays int
	RoundTrip      bool
	WindowStart    time.Time
	WindowEnd      time.Time

	MaxPrice   *decimal.Decimal
	MaxStops   *int
	DirectOnly bool
}

func (r *SearchRequest) Validate() error {
	if len(r.Origins) == 0 {
		return ErrMissingOrigins
	}
	if len(r.Destinations) == 0 {
		return ErrMissingDestinations
	}
	if r.TripLengthDays < 0 {
		return ErrNegativeTripLength
	}
	if r.WindowStart.IsZero() || r.WindowEnd.IsZero() {
		return ErrMissingWindow
	}
	if r.WindowEnd.Before(r.WindowStart) {
		return ErrInvertedWindow
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigins      ValidationError = "at least one origin is required"
	ErrMissingDestinations ValidationError = "at least one destination is required"
	ErrNegativeTripLength  ValidationError = "trip length must be zero or more days"
	ErrMissingWindow       ValidationError = "outbound date window is required"
	ErrInvertedWindow      ValidationError = "window start must not be after window end"
)
