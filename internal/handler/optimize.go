package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/voyago/fareopt/internal/engine"
	"github.com/voyago/fareopt/internal/expand"
	"github.com/voyago/fareopt/internal/models"
	"github.com/voyago/fareopt/pkg/currency"
)

type OptimizeRequest struct {
	Origins        []string `json:"origins"`
	Destinations   []string `json:"destinations"`
	TripLengthDays int      `json:"trip_length_days"`
	RoundTrip      bool     `json:"round_trip"`
	WindowStart    string   `json:"window_start"`
	WindowEnd      string   `json:"window_end"`
	MaxPrice       *string  `json:"max_price,omitempty"`
	MaxStops       *int     `json:"max_stops,omitempty"`
	DirectOnly     bool     `json:"direct_only"`
}

type Itinerary struct {
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	Departure      string   `json:"departure"`
	Return         string   `json:"return,omitempty"`
	Total          string   `json:"total"`
	TotalFormatted string   `json:"total_formatted"`
	Currency       string   `json:"currency"`
	Stops          int      `json:"stops"`
	ElapsedMinutes int      `json:"elapsed_minutes"`
	Carriers       []string `json:"carriers,omitempty"`
	OfferRef       string   `json:"offer_ref,omitempty"`
}

type OptimizeResponse struct {
	Disposition      string     `json:"disposition"`
	Best             *Itinerary `json:"best,omitempty"`
	Attempted        int        `json:"attempted"`
	Succeeded        int        `json:"succeeded"`
	Failed           int        `json:"failed"`
	NotFound         int        `json:"not_found"`
	DeadlineExceeded bool       `json:"deadline_exceeded"`
	FatalReasons     []string   `json:"fatal_reasons,omitempty"`
	SearchTimeMs     int64      `json:"search_time_ms"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type OptimizeHandler struct {
	optimizer *engine.Optimizer
}

func NewOptimizeHandler(o *engine.Optimizer) *OptimizeHandler {
	return &OptimizeHandler{optimizer: o}
}

func (h *OptimizeHandler) Optimize(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var body OptimizeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	req, err := toSearchRequest(body)
	if err != nil {
		return badRequest(c, "validation_error", err)
	}

	result, err := h.optimizer.Optimize(ctx, req)
	if err != nil {
		var vErr models.ValidationError
		var rErr *expand.ResolutionError
		switch {
		case errors.As(err, &vErr):
			return badRequest(c, "validation_error", err)
		case errors.As(err, &rErr):
			return badRequest(c, "resolution_error", err)
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "search_error",
				Message: "Failed to optimize fares: " + err.Error(),
				Code:    http.StatusInternalServerError,
			})
		}
	}

	resp := OptimizeResponse{
		Disposition:      string(result.Disposition()),
		Attempted:        result.Attempted,
		Succeeded:        result.Succeeded,
		Failed:           result.Failed,
		NotFound:         result.NotFound,
		DeadlineExceeded: result.DeadlineExceeded,
		FatalReasons:     result.FatalReasons,
		SearchTimeMs:     time.Since(startTime).Milliseconds(),
	}
	if result.Best != nil {
		resp.Best = toItinerary(*result.Best)
	}
	return c.JSON(http.StatusOK, resp)
}

func toSearchRequest(body OptimizeRequest) (models.SearchRequest, error) {
	req := models.SearchRequest{
		Origins:        body.Origins,
		Destinations:   body.Destinations,
		TripLengthDays: body.TripLengthDays,
		RoundTrip:      body.RoundTrip,
		MaxStops:       body.MaxStops,
		DirectOnly:     body.DirectOnly,
	}

	var err error
	if req.WindowStart, err = time.Parse("2006-01-02", body.WindowStart); err != nil {
		return req, models.ErrMissingWindow
	}
	if req.WindowEnd, err = time.Parse("2006-01-02", body.WindowEnd); err != nil {
		return req, models.ErrMissingWindow
	}
	if body.MaxPrice != nil {
		maxPrice, err := decimal.NewFromString(*body.MaxPrice)
		if err != nil {
			return req, models.ValidationError("max_price is not a valid amount")
		}
		req.MaxPrice = &maxPrice
	}
	return req, nil
}

func toItinerary(q models.PriceQuote) *Itinerary {
	it := &Itinerary{
		Origin:         q.Tuple.Origin,
		Destination:    q.Tuple.Destination,
		Departure:      q.Tuple.Departure.Format("2006-01-02"),
		Total:          q.Total.StringFixed(2),
		TotalFormatted: currency.Format(q.Total, q.Currency),
		Currency:       q.Currency,
		Stops:          q.TotalStops(),
		ElapsedMinutes: int(q.Elapsed.Minutes()),
		Carriers:       q.Carriers,
		OfferRef:       q.OfferRef,
	}
	if q.Tuple.Return != nil {
		it.Return = q.Tuple.Return.Format("2006-01-02")
	}
	return it
}

func badRequest(c echo.Context, kind string, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   kind,
		Message: err.Error(),
		Code:    http.StatusBadRequest,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
