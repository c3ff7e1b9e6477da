package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultMaxBytes  = 512 * 1024
	defaultBudget    = 12000

	truncationMarker = "\n...[content truncated]"
)

// Fetcher retrieves a product page and reduces it to plaintext the
// extractor can read: numeric hint lines first, then stripped page text,
// hard-bounded to a character budget.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	budget    int
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) { f.client = hc }
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithContentBudget overrides the output character budget.
func WithContentBudget(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.budget = n
		}
	}
}

// New creates a Fetcher with sensible defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: defaultUserAgent,
		maxBytes:  defaultMaxBytes,
		budget:    defaultBudget,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch GETs a URL and returns cleaned plaintext. Errors here are non-fatal
// to the pipeline: the run continues without scraped content.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "fetch: get")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Errorf("fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", eris.Wrap(err, "fetch: read body")
	}

	raw := string(body)

	// Hints are scanned against the raw HTML before stripping: prices and
	// sizes often live in attributes or dense markup that stripping mangles.
	var b strings.Builder
	for _, h := range ExtractHints(raw) {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(StripHTML(raw))

	return truncate(b.String(), f.budget), nil
}

// truncate hard-bounds content to budget bytes with a marker, keeping
// downstream request size predictable. The cut backs off to a rune
// boundary so a multi-byte character is never split.
func truncate(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncationMarker
}
