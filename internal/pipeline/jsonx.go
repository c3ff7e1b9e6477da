package pipeline

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractJSONObject locates the first balanced {...} span in free-form
// provider text. Markdown code fences are tolerated. It fails in exactly
// two ways: no opening brace at all, or an opening brace that never
// balances before the text ends. The returned span is not guaranteed to be
// valid JSON; callers still unmarshal strictly.
func ExtractJSONObject(text string) (string, error) {
	text = stripCodeFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", eris.New("jsonx: no JSON object in text")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", eris.New("jsonx: unbalanced JSON object in text")
}

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	for _, fence := range []string{"```json", "```"} {
		if strings.HasPrefix(text, fence) {
			text = strings.TrimPrefix(text, fence)
			if idx := strings.LastIndex(text, "```"); idx >= 0 {
				text = text[:idx]
			}
			return strings.TrimSpace(text)
		}
	}
	return text
}
