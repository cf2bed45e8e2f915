package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

const DefaultUserAgent = "wbrowse/1.0 (compatible; Go)"

// ErrUnsupportedEncoding is returned for responses whose body carries a
// content encoding. Bodies are never decompressed.
var ErrUnsupportedEncoding = errors.New("unsupported content encoding")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %s fetching %s", e.Status, e.URL)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a client with the given timeout and user agent. Empty
// or zero values select the defaults.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Keep the transport from negotiating gzip and decoding it behind our back.
	transport.DisableCompression = true
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		userAgent:  userAgent,
	}
}

// Get retrieves rawURL and returns the body decoded to UTF-8 along with
// the response content type.
func (c *Client) Get(ctx context.Context, rawURL string) (body string, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &StatusError{URL: rawURL, Code: resp.StatusCode, Status: resp.Status}
	}
	if enc := resp.Header.Get("Content-Encoding"); enc != "" && !strings.EqualFold(enc, "identity") {
		return "", "", fmt.Errorf("%w %q fetching %s", ErrUnsupportedEncoding, enc, rawURL)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response body: %w", err)
	}
	contentType = resp.Header.Get("Content-Type")
	body, err = Decode(raw, contentType)
	if err != nil {
		return "", "", err
	}
	return body, contentType, nil
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Decode converts raw bytes to UTF-8 using the charset from contentType,
// a byte order mark, or a <meta> declaration, in that order. A body with
// none of those is kept as UTF-8 when it is valid UTF-8.
func Decode(raw []byte, contentType string) (string, error) {
	enc, _, certain := charset.DetermineEncoding(raw, contentType)
	if !certain && utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding body: %w", err)
	}
	return string(decoded), nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
