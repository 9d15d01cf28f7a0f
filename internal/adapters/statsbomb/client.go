// Package statsbomb fetches open match-event data over HTTP.
//
// The source exposes a static JSON layout: a competitions catalog, one
// matches file per competition/season pair, and one events file per match.
// The client only decodes; flattening happens downstream.
package statsbomb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultBaseURL   = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "analytics-handbook/1.0"
)

// Fetcher is the read surface the pipeline depends on.
type Fetcher interface {
	// Competitions returns the full competition/season catalog.
	Competitions(ctx context.Context) ([]model.Competition, error)

	// Matches returns the match descriptors for one competition season.
	Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error)

	// Events returns the raw, undecoded-shape events of one match.
	Events(ctx context.Context, matchID int) ([]model.RawEvent, error)
}

// Client implements Fetcher against the open-data HTTP layout.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a data source client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Competitions returns the competition/season catalog.
func (c *Client) Competitions(ctx context.Context) ([]model.Competition, error) {
	var out []model.Competition
	if err := c.getJSON(ctx, c.baseURL+"/competitions.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Matches returns the match descriptors for one competition season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error) {
	url := fmt.Sprintf("%s/matches/%d/%d.json", c.baseURL, competitionID, seasonID)
	var out []model.Match
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Events returns the raw events of one match. Events keep their schema-less
// decoded form: nested maps, arrays, float64 numbers.
func (c *Client) Events(ctx context.Context, matchID int) ([]model.RawEvent, error) {
	url := fmt.Sprintf("%s/events/%d.json", c.baseURL, matchID)
	var out []model.RawEvent
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getJSON performs one GET and decodes the body into v. Failures wrap
// ErrDataSource and are never retried.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request for %s: %w", ErrDataSource, url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: get %s: %w", ErrDataSource, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: get %s: unexpected status %d", ErrDataSource, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrDataSource, url, err)
	}
	return nil
}
