package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head>
<title>Vitamin D3</title>
<style>body { color: red }</style>
<script>trackEverything();</script>
</head><body>
<h1>Vitamin D3 5000 IU</h1>
<p>Price: $24.99 &amp; free shipping</p>
<ul><li>120 capsules</li><li>Serving size 1 capsule</li></ul>
<noscript>enable javascript</noscript>
</body></html>`

func TestFetch_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	f := New()
	content, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	// Hint lines come first, scanned from raw HTML.
	assert.True(t, strings.HasPrefix(content, "Prices found on page: $24.99"), content)
	assert.Contains(t, content, "Sizes found on page:")
	assert.Contains(t, content, "120 capsules")

	// Stripped body text follows.
	assert.Contains(t, content, "Vitamin D3 5000 IU")
	assert.Contains(t, content, "Price: $24.99 & free shipping")
	assert.NotContains(t, content, "trackEverything")
	assert.NotContains(t, content, "color: red")
	assert.NotContains(t, content, "enable javascript")
}

func TestFetch_Non2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	f := New()
	_, err := f.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetch_TruncatesToBudget(t *testing.T) {
	big := "<p>" + strings.Repeat("lorem ipsum dolor ", 500) + "</p>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(big))
	}))
	defer ts.Close()

	f := New(WithContentBudget(200))
	content, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(content), 200+len(truncationMarker))
	assert.True(t, strings.HasSuffix(content, truncationMarker))
}

func TestTruncate_BacksOffToRuneBoundary(t *testing.T) {
	// "é" is two bytes; a budget landing inside it must not split the rune.
	s := "caf" + strings.Repeat("é", 10)
	out := truncate(s, 4)

	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "caf"+truncationMarker, out)

	// A budget on a clean boundary keeps the full prefix.
	out = truncate(s, 5)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "café"+truncationMarker, out)

	// Under budget passes through untouched.
	assert.Equal(t, "café", truncate("café", 10))
}

func TestStripHTML_StructuralSeparators(t *testing.T) {
	html := `<table><tr><td>Serving</td><td>1 scoop</td></tr><tr><td>Calories</td><td>120</td></tr></table>`
	text := StripHTML(html)

	assert.Contains(t, text, "Serving | 1 scoop |")
	// Table rows end up on separate lines.
	assert.Contains(t, text, "\n")
}

func TestStripHTML_Entities(t *testing.T) {
	assert.Equal(t, `"A & B" <now>`, StripHTML(`&quot;A &amp; B&quot; &lt;now&gt;`))
}

func TestExtractHints_DedupAndCap(t *testing.T) {
	html := strings.Repeat("<span>$9.99</span>", 10) +
		"<b>$19.99</b><b>$29.99</b><b>$39.99</b><b>$49.99</b><b>$59.99</b><b>$69.99</b>"

	hints := ExtractHints(html)
	require.Len(t, hints, 1)
	prices := strings.TrimPrefix(hints[0], "Prices found on page: ")
	parts := strings.Split(prices, ", ")
	assert.Len(t, parts, 5, "capped at five de-duplicated matches")
	assert.Equal(t, "$9.99", parts[0])
}

func TestExtractHints_NoMatches(t *testing.T) {
	assert.Empty(t, ExtractHints("<p>nothing numeric here</p>"))
}
