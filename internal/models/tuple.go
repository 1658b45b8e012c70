package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// CandidateTuple is one concrete combination the engine prices: an origin
// and destination airport plus a departure date, and for round trips the
// derived return date (departure + trip length, never independently
// flexible).
type CandidateTuple struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Departure   time.Time  `json:"departure"`
	Return      *time.Time `json:"return,omitempty"`

	// Seq is the tuple's position in the generator's deterministic
	// sequence. It is the last resort of the tie-break and is excluded
	// from the cache key.
	Seq int `json:"seq"`
}

// Key returns a stable digest of the route and dates, suitable as a cache
// key component. Tuples that price identically share a key regardless of
// their sequence position.
func (t CandidateTuple) Key() string {
	keyData := struct {
		Origin      string
		Destination string
		Departure   string
		Return      string
	}{
		Origin:      t.Origin,
		Destination: t.Destination,
		Departure:   t.Departure.Format("2006-01-02"),
	}
	if t.Return != nil {
		keyData.Return = t.Return.Format("2006-01-02")
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "fare:" + hex.EncodeToString(hash[:])
}
