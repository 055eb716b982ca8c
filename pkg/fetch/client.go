// Package fetch performs bounded, browser-like HTTP fetches of target pages
// and platform APIs. Every call is single-shot: there is no retry loop, a
// failed fetch is reported to the caller which decides on fallback.
package fetch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultTimeout is the per-call deadline applied to every fetch. A
// caller deadline that is sooner takes precedence.
const DefaultTimeout = 8 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 2 * 1024 * 1024

// Browser-like request headers. Many target sites vary or withhold content
// for non-browser agents, so the fetcher always presents as a desktop
// browser.
const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptHTML   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptLang   = "en-US,en;q=0.9"
	acceptEncode = "gzip"
)

// Result is the outcome of a successful page fetch. FinalURL is the URL
// after redirects were followed; relative references in the body resolve
// against it, not the original request URL.
type Result struct {
	Body     string
	FinalURL string
}

// Client fetches pages and JSON APIs with a bounded timeout.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a fetch client. Redirects are followed up to a cap of
// ten hops.
func NewClient(opts ...Option) *Client {
	c := &Client{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
	return c
}

// FetchHTML performs a single GET against url and returns the decoded body
// text together with the final resolved URL. Non-2xx responses yield an
// *HTTPError; transport failures and timeouts yield a *TransportError.
func (c *Client) FetchHTML(ctx context.Context, url string) (*Result, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", acceptLang)
	req.Header.Set("Accept-Encoding", acceptEncode)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &TransportError{URL: url, Err: err}
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	text := convertToUTF8(body, resp.Header.Get("Content-Type"))
	return &Result{Body: text, FinalURL: finalURL}, nil
}

// GetJSON fetches url and decodes its JSON body into target. Used by the
// oEmbed and Reddit API strategies.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(target); err != nil {
		return &TransportError{URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// withDeadline bounds the call with the client timeout. A caller deadline
// that is already sooner stays in effect.
func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// convertToUTF8 decodes the body according to the declared charset,
// assuming UTF-8 when detection fails.
func convertToUTF8(body []byte, contentType string) string {
	reader, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		slog.Debug("charset detection failed, assuming UTF-8", "error", err)
		return string(body)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
