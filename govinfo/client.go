// Package govinfo provides the HTTP client for the GovInfo document
// repository API: a paginated published-package search and a per-package
// zip bundle download.
package govinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	cfr "github.com/markasoftware/cfr-court-opinions"
	"golang.org/x/time/rate"
)

// DefaultHost is the production GovInfo API host.
const DefaultHost = "https://api.govinfo.gov"

// DefaultDownloadTimeout bounds the wall-clock time of a single zip
// download attempt.
const DefaultDownloadTimeout = 5 * time.Minute

// searchPageSize is the page size requested from the search endpoint.
const searchPageSize = 1000

// Ensure Client implements cfr.PackageAPI at compile time.
var _ cfr.PackageAPI = (*Client)(nil)

// Client calls the GovInfo API. Authentication is an API key appended as a
// URL query parameter to every outbound request, including cursor-derived
// page URLs.
type Client struct {
	host            string
	apiKey          string
	client          *http.Client
	limiter         *rate.Limiter
	logger          *slog.Logger
	retryDelays     []time.Duration
	downloadTimeout time.Duration
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

// WithLimiter overrides the request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryDelays overrides the zip-download backoff schedule, mainly so
// tests don't have to wait for real delays.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) { c.retryDelays = delays }
}

// WithDownloadTimeout overrides the per-attempt download timeout.
func WithDownloadTimeout(d time.Duration) Option {
	return func(c *Client) { c.downloadTimeout = d }
}

// NewClient creates a GovInfo API client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		host:            DefaultHost,
		apiKey:          apiKey,
		limiter:         rate.NewLimiter(rate.Limit(2), 1),
		logger:          slog.Default(),
		retryDelays:     DefaultRetryDelays(),
		downloadTimeout: DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

// authURL appends the URL-escaped API key to the query string of rawURL,
// preserving every parameter already present.
func (c *Client) authURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// searchResponse is one page of the published-package search.
type searchResponse struct {
	NextPage string `json:"nextPage"`
	Packages []struct {
		PackageID    string `json:"packageId"`
		Title        string `json:"title"`
		LastModified string `json:"lastModified"`
		DateIssued   string `json:"dateIssued"`
		PackageLink  string `json:"packageLink"`
	} `json:"packages"`
}

// Search returns every USCOURTS package published in the given month,
// following nextPage cursors until absent. Pages are accumulated in
// arrival order. JSON endpoints fail fast: any non-2xx status or transport
// error aborts with no retry.
func (c *Client) Search(ctx context.Context, year, month int) ([]cfr.Package, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	pageURL := fmt.Sprintf("%s/published/%s/%s?collection=USCOURTS&pageSize=%d&offsetMark=%s",
		c.host, start.Format("2006-01-02"), end.Format("2006-01-02"), searchPageSize, url.QueryEscape("*"))

	var packages []cfr.Package
	pages := 0
	for pageURL != "" {
		var page searchResponse
		if err := c.getJSON(ctx, pageURL, &page); err != nil {
			return nil, err
		}
		pages++
		for _, p := range page.Packages {
			packages = append(packages, cfr.Package{
				PackageID:    p.PackageID,
				Title:        p.Title,
				LastModified: p.LastModified,
				DateIssued:   p.DateIssued,
				PackageLink:  p.PackageLink,
			})
		}
		pageURL = page.NextPage
	}

	c.logger.Info("package search complete", "year", year, "month", month, "pages", pages, "packages", len(packages))
	return packages, nil
}

// DownloadZip streams the package's zip bundle to w, retrying transient
// failures with bounded backoff. Each attempt is capped by the download
// timeout. Bytes already copied to w on a failed attempt are the caller's
// problem; the fs layer discards partial temp files on error.
func (c *Client) DownloadZip(ctx context.Context, packageID string, w io.Writer) error {
	zipURL, err := c.authURL(fmt.Sprintf("%s/packages/%s/zip", c.host, url.PathEscape(packageID)))
	if err != nil {
		return err
	}

	return retry(ctx, c.retryDelays, c.logger, "zip download "+packageID, func() error {
		if err := rewind(w); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.downloadTimeout)
		defer cancel()

		if err := c.limiter.Wait(attemptCtx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, zipURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d downloading zip for %s", resp.StatusCode, packageID)
		}

		_, err = io.Copy(w, resp.Body)
		return err
	})
}

// getJSON performs a single authenticated request and decodes the JSON
// response into v.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	fullURL, err := c.authURL(rawURL)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	c.logger.Debug("govinfo request", "url", rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
