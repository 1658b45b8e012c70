package amadeus

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/voyago/fareopt/internal/models"
)

type offersResponse struct {
	Data []offer `json:"data"`
}

type offer struct {
	ID          string      `json:"id"`
	Itineraries []itinerary `json:"itineraries"`
	Price       struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
}

type itinerary struct {
	Duration string `json:"duration"`
	Segments []struct {
		CarrierCode string `json:"carrierCode"`
	} `json:"segments"`
}

// FetchFare prices one candidate tuple with a single flight-offers search
// and returns the cheapest offer. An empty data array maps to
// pricing.ErrNoItinerary via a nil quote.
func (c *Client) FetchFare(ctx context.Context, tuple models.CandidateTuple) (*models.PriceQuote, error) {
	q := url.Values{}
	q.Set("originLocationCode", tuple.Origin)
	q.Set("destinationLocationCode", tuple.Destination)
	q.Set("departureDate", tuple.Departure.Format("2006-01-02"))
	if tuple.Return != nil {
		q.Set("returnDate", tuple.Return.Format("2006-01-02"))
	}
	q.Set("adults", "1")
	q.Set("currencyCode", c.currency)
	q.Set("max", "10")

	var resp offersResponse
	if err := c.get(ctx, offersPath, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	best := lo.MinBy(resp.Data, func(a, b offer) bool {
		pa, errA := decimal.NewFromString(a.Price.GrandTotal)
		pb, errB := decimal.NewFromString(b.Price.GrandTotal)
		if errA != nil || errB != nil {
			return errA == nil
		}
		return pa.LessThan(pb)
	})
	return c.toQuote(tuple, best)
}

func (c *Client) toQuote(tuple models.CandidateTuple, o offer) (*models.PriceQuote, error) {
	total, err := decimal.NewFromString(o.Price.GrandTotal)
	if err != nil {
		return nil, err
	}

	quote := &models.PriceQuote{
		Tuple:    tuple,
		Total:    total,
		Currency: o.Price.Currency,
		Carriers: o.ValidatingAirlineCodes,
		OfferRef: o.ID,
	}
	for i, it := range o.Itineraries {
		stops := len(it.Segments) - 1
		if stops < 0 {
			stops = 0
		}
		if i == 0 {
			quote.StopsOut = stops
		} else {
			quote.StopsReturn = stops
		}
		quote.Elapsed += parseISODuration(it.Duration)
	}
	return quote, nil
}

// parseISODuration reads the P#DT#H#M durations Amadeus reports per
// itinerary. Unparseable input yields zero, which only weakens accuracy of
// the duration tie-break.
func parseISODuration(s string) time.Duration {
	var minutes int64
	s = strings.TrimPrefix(s, "P")
	if d := strings.IndexByte(s, 'D'); d >= 0 {
		if v, err := strconv.ParseInt(s[:d], 10, 64); err == nil {
			minutes += v * 24 * 60
		}
		s = s[d+1:]
	}
	s = strings.TrimPrefix(s, "T")
	if h := strings.IndexByte(s, 'H'); h >= 0 {
		if v, err := strconv.ParseInt(s[:h], 10, 64); err == nil {
			minutes += v * 60
		}
		s = s[h+1:]
	}
	if m := strings.IndexByte(s, 'M'); m >= 0 {
		if v, err := strconv.ParseInt(s[:m], 10, 64); err == nil {
			minutes += v
		}
	}
	return time.Duration(minutes) * time.Minute
}
