package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validRequest() SearchRequest {
	return SearchRequest{
		Origins:        []string{"JFK"},
		Destinations:   []string{"CDG"},
		TripLengthDays: 5,
		RoundTrip:      true,
		WindowStart:    time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:      time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	req := validRequest()
	before := req
	require.NoError(t, req.Validate())
	// Validation only checks; quote currency is the fare source's concern.
	require.Equal(t, before, req)
}

func TestValidateRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SearchRequest)
		want   error
	}{
		{"no origins", func(r *SearchRequest) { r.Origins = nil }, ErrMissingOrigins},
		{"no destinations", func(r *SearchRequest) { r.Destinations = nil }, ErrMissingDestinations},
		{"negative trip length", func(r *SearchRequest) { r.TripLengthDays = -1 }, ErrNegativeTripLength},
		{"zero window", func(r *SearchRequest) { r.WindowStart = time.Time{} }, ErrMissingWindow},
		{"inverted window", func(r *SearchRequest) {
			r.WindowStart, r.WindowEnd = r.WindowEnd, r.WindowStart
		}, ErrInvertedWindow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			require.ErrorIs(t, req.Validate(), tc.want)
		})
	}
}

func TestTupleKeyIgnoresSequencePosition(t *testing.T) {
	dep := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	a := CandidateTuple{Origin: "JFK", Destination: "CDG", Departure: dep, Seq: 0}
	b := CandidateTuple{Origin: "JFK", Destination: "CDG", Departure: dep, Seq: 7}
	require.Equal(t, a.Key(), b.Key())

	c := CandidateTuple{Origin: "EWR", Destination: "CDG", Departure: dep}
	require.NotEqual(t, a.Key(), c.Key())

	ret := dep.AddDate(0, 0, 5)
	d := CandidateTuple{Origin: "JFK", Destination: "CDG", Departure: dep, Return: &ret}
	require.NotEqual(t, a.Key(), d.Key())
}
