// Package ecfr provides the HTTP client for the eCFR APIs (agency list,
// structural tables of contents, and full regulation XML) plus the XML
// word-count parser used during aggregation.
package ecfr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

// DefaultHost is the production eCFR host.
const DefaultHost = "https://www.ecfr.gov"

// DefaultXMLTimeout bounds one full-title XML download attempt. Some parts
// run to thousands of printed pages.
const DefaultXMLTimeout = 10 * time.Minute

// Ensure Client implements cfr.RegulationAPI at compile time.
var _ cfr.RegulationAPI = (*Client)(nil)

// Client calls the eCFR APIs. No authentication is required.
type Client struct {
	host        string
	client      *http.Client
	logger      *slog.Logger
	retryDelays []time.Duration
	xmlTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHost overrides the API host, mainly for tests.
func WithHost(host string) Option {
	return func(c *Client) { c.host = host }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryDelays overrides the XML download backoff schedule.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) { c.retryDelays = delays }
}

// NewClient creates an eCFR client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		host:        DefaultHost,
		logger:      slog.Default(),
		retryDelays: defaultRetryDelays(),
		xmlTimeout:  DefaultXMLTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

func defaultRetryDelays() []time.Duration {
	return []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
}

// asOf formats the "as of" date for versioner endpoints: the first day of
// the requested month.
func asOf(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// Agencies streams the agency list JSON to w. Fails fast on any error.
func (c *Client) Agencies(ctx context.Context, w io.Writer) error {
	return c.get(ctx, c.host+"/api/admin/v1/agencies.json", w)
}

// Structure streams one title's structural table of contents to w. Fails
// fast on any error.
func (c *Client) Structure(ctx context.Context, year, month, title int, w io.Writer) error {
	url := fmt.Sprintf("%s/api/versioner/v1/structure/%s/title-%d.json", c.host, asOf(year, month), title)
	return c.get(ctx, url, w)
}

// TitleXML streams the full regulation XML for one part of a title to w,
// retrying transient failures with bounded backoff.
func (c *Client) TitleXML(ctx context.Context, year, month, title, part int, w io.Writer) error {
	url := fmt.Sprintf("%s/api/versioner/v1/full/%s/title-%d.xml?part=%d", c.host, asOf(year, month), title, part)

	maxAttempts := len(c.retryDelays) + 1
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if err := rewind(w); err != nil {
			return err
		}
		attemptCtx, cancel := context.WithTimeout(ctx, c.xmlTimeout)
		lastErr = c.get(attemptCtx, url, w)
		cancel()
		if lastErr == nil {
			return nil
		}

		if i >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("retrying title XML download", "title", title, "part", part, "attempt", i+2, "err", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelays[i]):
		}
	}
	return lastErr
}

// rewind resets w between download attempts when it supports it, so a
// retried transfer does not append to the partial bytes of a failed one.
func rewind(w io.Writer) error {
	type seekTruncater interface {
		io.Seeker
		Truncate(size int64) error
	}
	st, ok := w.(seekTruncater)
	if !ok {
		return nil
	}
	if _, err := st.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return st.Truncate(0)
}

func (c *Client) get(ctx context.Context, url string, w io.Writer) error {
	c.logger.Debug("ecfr request", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
