package resource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	stdnet "wbrowse/std/net"
)

// ErrUnsupportedScheme is returned for locators no fetcher can serve.
var ErrUnsupportedScheme = errors.New("unsupported scheme")

// Fetcher retrieves the text of a document by locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// DefaultFetcher serves http, https, file and data locators, resolving
// relative locators against a base URL. A bare path with no scheme and no
// base is read from the local filesystem.
type DefaultFetcher struct {
	baseURL string
	client  *stdnet.Client
	logger  *zap.Logger
}

// NewFetcher creates a DefaultFetcher with the given base URL and HTTP client.
// A nil client gets the default timeout and user agent.
func NewFetcher(baseURL string, client *stdnet.Client) *DefaultFetcher {
	if client == nil {
		client = stdnet.NewClient(0, "")
	}
	return &DefaultFetcher{baseURL: baseURL, client: client, logger: zap.NewNop()}
}

func (f *DefaultFetcher) SetLogger(logger *zap.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// SetBaseURL changes the URL relative locators resolve against.
func (f *DefaultFetcher) SetBaseURL(baseURL string) {
	f.baseURL = baseURL
}

func (f *DefaultFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	resolved := locator
	if !hasScheme(locator) && stdnet.IsNetworkURL(f.baseURL) {
		resolved = stdnet.ResolveURL(f.baseURL, locator)
	}

	var (
		body string
		err  error
	)
	scheme := ""
	if hasScheme(resolved) {
		scheme = strings.ToLower(resolved[:strings.IndexByte(resolved, ':')])
	}
	switch scheme {
	case "http", "https":
		body, _, err = f.client.Get(ctx, resolved)
	case "file":
		u, perr := url.Parse(resolved)
		if perr != nil {
			return "", fmt.Errorf("parsing %s: %w", resolved, perr)
		}
		body, err = fetchFile(u.Path)
	case "data":
		body, err = fetchData(resolved)
	case "":
		body, err = fetchFile(resolved)
	default:
		return "", fmt.Errorf("%w %q in %s", ErrUnsupportedScheme, scheme, locator)
	}
	if err != nil {
		return "", err
	}

	f.logger.Debug("fetched document",
		zap.String("url", resolved),
		zap.String("size", humanize.Bytes(uint64(len(body)))))
	return body, nil
}

// hasScheme reports whether s starts with a URL scheme such as "http:".
// Single letters are treated as Windows drive names, not schemes.
func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i < 2 {
		return false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case j > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

func fetchFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	return stdnet.Decode(raw, contentType)
}

// fetchData decodes a data: URL of the form data:[mediatype][;base64],payload.
func fetchData(locator string) (string, error) {
	rest := strings.TrimPrefix(locator[len("data:"):], "//")
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", fmt.Errorf("malformed data URL: missing ','")
	}

	contentType := header
	isBase64 := false
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		isBase64 = true
		contentType = header[:len(header)-len(";base64")]
	}

	var raw []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", fmt.Errorf("decoding data URL: %w", err)
		}
		raw = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			// Leave undecodable escapes as they are.
			unescaped = payload
		}
		raw = []byte(unescaped)
	}
	return stdnet.Decode(raw, contentType)
}
