// Package amadeus implements both injected capabilities of the engine
// against the Amadeus self-service REST API: fare lookups via the
// flight-offers search and location resolution via reference-data
// locations.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/voyago/fareopt/internal/pricing"
)

const (
	authPath      = "/v1/security/oauth2/token"
	offersPath    = "/v2/shopping/flight-offers"
	locationsPath = "/v1/reference-data/locations"
)

type Client struct {
	host     string
	id       string
	secret   string
	currency string
	client   *http.Client

	mu      sync.Mutex
	tok     string
	expires time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func NewClient(host, clientID, clientSecret, currency string, opts ...Option) *Client {
	c := &Client{
		host:     host,
		id:       clientID,
		secret:   clientSecret,
		currency: currency,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "amadeus" }

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tok != "" && time.Now().Before(c.expires.Add(-30*time.Second)) {
		return c.tok, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.id)
	form.Set("client_secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+authPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", c.statusError(resp)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	c.tok = tr.AccessToken
	c.expires = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.tok, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.id == "" || c.secret == "" {
		return errors.New("amadeus credentials missing")
	}
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError maps an HTTP failure into the classification the pricing
// client understands.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &pricing.SourceError{
		Source:     c.Name(),
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(body))),
	}
}
