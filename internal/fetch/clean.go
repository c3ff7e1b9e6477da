package fetch

import (
	"regexp"
	"strings"
)

var (
	dropBlockRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)

	// Structural closers become line breaks so list items, paragraphs, and
	// table rows stay distinguishable after tags are gone.
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</li>|</h[1-6]>|</tr>`)
	cellRe      = regexp.MustCompile(`(?i)</t[dh]>`)

	tagRe     = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

// StripHTML reduces raw HTML to plaintext: script/style/noscript blocks
// removed, structural tags converted to line breaks or separators, remaining
// tags stripped, a fixed entity set decoded, whitespace collapsed.
func StripHTML(html string) string {
	html = dropBlockRe.ReplaceAllString(html, "")
	html = lineBreakRe.ReplaceAllString(html, "\n")
	html = cellRe.ReplaceAllString(html, " | ")
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)

	html = spaceRe.ReplaceAllString(html, " ")
	// Trim per-line leftovers from tag stripping before collapsing blanks.
	lines := strings.Split(html, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	html = strings.Join(lines, "\n")
	html = newlineRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
