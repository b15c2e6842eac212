// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package radar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
)

const (
	// DefaultBaseURL is the Cloudflare Radar API root.
	DefaultBaseURL = "https://api.cloudflare.com/client/v4/radar"
	// DefaultPath is the layer 7 "top attacks" resource.
	DefaultPath = "/attacks/layer7/top/attacks"
	// DefaultTimeout bounds one fetch end to end.
	DefaultTimeout = 20 * time.Second
	// DefaultLimit is the result count asked for when the caller passes <= 0.
	DefaultLimit = 50

	maxResponseBytes = 10 << 20
	maxErrorBodySize = 64 * 1024
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Path    string
	// Token is sent as a bearer credential when non-empty. An empty token is
	// not an error; the upstream decides whether to reject the request.
	Token   string
	Timeout time.Duration
	// Window is the span of the default window when DateRange is empty.
	Window time.Duration
	// DateRange, when set, makes the default window a dateRange token.
	DateRange string
	// RequestsPerSecond and Burst pace outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// FetchOptions selects what one fetch asks for.
type FetchOptions struct {
	Window Window // zero value means the client default
	Limit  int    // <= 0 means DefaultLimit
}

// Result is a parsed upstream response.
type Result struct {
	Arcs    []models.Arc
	Meta    map[string]interface{}
	Records int // records seen in list-typed buckets, before dropping
	Window  Window
}

// Client fetches attack arcs from the threat-intelligence API.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewClient builds a client. Zero config fields take their defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.DateRange != "" && !ValidDateRange(cfg.DateRange) {
		return nil, fmt.Errorf("invalid dateRange token %q", cfg.DateRange)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "attackmap"
	}

	endpoint, err := url.JoinPath(cfg.BaseURL, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		now:        time.Now,
	}, nil
}

// Endpoint returns the resolved resource URL without query parameters.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HasCredential reports whether a bearer token is configured.
func (c *Client) HasCredential() bool {
	return c.cfg.Token != ""
}

// DefaultWindow resolves the window used when FetchOptions.Window is zero.
func (c *Client) DefaultWindow() Window {
	if c.cfg.DateRange != "" {
		return RangeWindow(c.cfg.DateRange)
	}
	return LastWindow(c.now(), c.cfg.Window)
}

// NormalizeLimit maps non-positive limits to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// Fetch asks the upstream for the top attacks in the window and parses the
// response into arcs. Every failure comes back as a *FetchError.
// A successful response with zero usable arcs is not an error.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	start := time.Now()
	res, err := c.fetch(ctx, opts)

	outcome := "success"
	switch {
	case err != nil:
		outcome = string(KindOf(err))
	case len(res.Arcs) == 0:
		outcome = "empty"
	}
	metrics.RecordUpstreamRequest(outcome, time.Since(start))
	return res, err
}

func (c *Client) fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	window := opts.Window
	if window.IsZero() {
		window = c.DefaultWindow()
	}
	if err := window.Validate(); err != nil {
		return nil, transportError(err)
	}

	reqURL := c.buildURL(window, NormalizeLimit(opts.Limit))

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(fmt.Errorf("rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, transportError(fmt.Errorf("create request failed: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, transportError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		return nil, &FetchError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("request failed with status %d: %s", resp.StatusCode, body),
		}
	}

	res, err := ParseEnvelope(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, transportError(fmt.Errorf("read body: %w", ctx.Err()))
		}
		return nil, err
	}
	res.Window = window
	return res, nil
}

func (c *Client) buildURL(window Window, limit int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("format", "json")
	window.apply(q)
	return c.endpoint + "?" + q.Encode()
}

// readBodyForError reads at most 64KB of an error body for diagnostics.
func readBodyForError(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return "(failed to read body)"
	}
	return strings.TrimSpace(string(b))
}
