// Package client retrieves policy tables from the CoronaNet REST service.
//
// A Client sends a compiled filter string to one of two resources, asks for
// CSV, and decodes the body into a reader.Table. Requests may be bounded by a
// fixed time ceiling; a bounded request that produces no response degrades
// to an empty table and a logged notice instead of an error. Every other
// failure is returned as an *APIError, *TransportError or *DecodeError.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vegasq/policycat/internal/query"
	"github.com/vegasq/policycat/internal/reader"
)

const (
	// DefaultBaseURL is the public CoronaNet API root.
	DefaultBaseURL = "https://coronanet-api.herokuapp.com"

	// DefaultTimeoutCeiling bounds requests made with timeout enabled.
	DefaultTimeoutCeiling = 9 * time.Second

	// ResourceEvents serves individual policy records.
	ResourceEvents = "public_release"
	// ResourceScores serves policy intensity scores.
	ResourceScores = "policy_intensity"

	// TimeoutNotice is logged when a bounded request is abandoned.
	TimeoutNotice = "API time-out reached"

	defaultUserAgent = "policycat"
)

// Client issues requests against a fixed service root. It is safe for
// concurrent use and never modified after New returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	ceiling    time.Duration
	userAgent  string
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeoutCeiling changes the bound applied when timeout is requested.
func WithTimeoutCeiling(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.ceiling = d
		}
	}
}

// WithLogger sets the logger receiving request diagnostics and notices.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		ceiling:    DefaultTimeoutCeiling,
		userAgent:  defaultUserAgent,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TimeoutCeiling returns the bound applied when timeout is requested.
func (c *Client) TimeoutCeiling() time.Duration {
	return c.ceiling
}

// GetEvents compiles q and retrieves matching policy records.
//
// An invalid filter combination fails with query.ErrInvalidArgument before
// any request is sent.
func (c *Client) GetEvents(ctx context.Context, q query.EventQuery, timeout bool) (*reader.Table, error) {
	filter, err := q.Compile()
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, ResourceEvents, filter, timeout)
}

// GetPolicyScores compiles q and retrieves matching intensity scores.
func (c *Client) GetPolicyScores(ctx context.Context, q query.ScoreQuery, timeout bool) (*reader.Table, error) {
	filter, err := q.Compile()
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, ResourceScores, filter, timeout)
}

// Fetch retrieves resource with an already compiled filter string.
//
// With timeout set, the call is bounded by the client's ceiling; if no
// response arrives in time, or the connection cannot be made at all, Fetch
// logs TimeoutNotice and returns an empty table with a nil error.
func (c *Client) Fetch(ctx context.Context, resource, filter string, timeout bool) (*reader.Table, error) {
	out := c.do(ctx, resource, filter, timeout)
	switch out.kind {
	case outcomeOK:
		return out.table, nil
	case outcomeTimedOut:
		c.logger.Warn().
			Err(out.err).
			Str("resource", resource).
			Dur("ceiling", c.ceiling).
			Msg(TimeoutNotice)
		return reader.Empty(), nil
	default:
		return nil, out.err
	}
}

func (c *Client) do(ctx context.Context, resource, filter string, timeout bool) outcome {
	rawURL := BuildURL(c.baseURL, resource, filter)
	requestID := uuid.NewString()

	reqCtx := ctx
	if timeout {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.ceiling)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return failed(&TransportError{URL: rawURL, Err: err})
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	log := c.logger.With().Str("request_id", requestID).Str("resource", resource).Logger()
	log.Debug().Str("url", rawURL).Bool("bounded", timeout).Msg("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(ctx, rawURL, timeout, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, rawURL, timeout, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := body
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return failed(&APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        rawURL,
			Body:       string(excerpt),
		})
	}

	table, err := reader.DecodeCSV(bytes.NewReader(body))
	if err != nil {
		return failed(&DecodeError{URL: rawURL, Err: err})
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("rows", table.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("received response")
	return succeeded(table)
}

// classifyTransport decides whether a failed bounded call is downgraded.
// Cancellation by the caller is never downgraded.
func classifyTransport(ctx context.Context, rawURL string, timeout bool, err error) outcome {
	if ctx.Err() != nil {
		return failed(&TransportError{URL: rawURL, Err: fmt.Errorf("%w: %v", ctx.Err(), err)})
	}
	if timeout {
		return timedOut(err)
	}
	return failed(&TransportError{URL: rawURL, Err: err})
}
