package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
	"github.com/shelfsense/enrich-cli/pkg/perplexity"
)

const searchSystemPrompt = `You are a product research assistant. Answer with a single JSON object and nothing else. Use the exact field keys requested. Include a "confidence" number between 0 and 1 for how certain you are overall, and a "source_url" string with the page you found the data on. Use null for anything you cannot verify.`

// FallbackAnswer is the parsed outcome of one secondary web search.
type FallbackAnswer struct {
	Values     model.Record
	Confidence float64
	SourceURL  string
}

// SearchMissing asks the web-search provider for the fields the first pass
// could not fill. The current price is always re-queried so a stale
// first-pass price can be replaced.
func SearchMissing(
	ctx context.Context,
	px perplexity.Client,
	pxModel string,
	s *schema.Schema,
	req model.Request,
	missing []string,
	defaultConfidence float64,
) (*FallbackAnswer, error) {
	keys := searchKeys(missing)

	resp, err := px.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: pxModel,
		Messages: []perplexity.Message{
			{Role: "system", Content: searchSystemPrompt},
			{Role: "user", Content: buildSearchPrompt(s, req, keys)},
		},
	})
	if err != nil {
		return nil, err
	}

	return parseFallbackAnswer(resp.Answer(), s, keys, defaultConfidence)
}

// searchKeys returns the missing fields with the price query always
// appended.
func searchKeys(missing []string) []string {
	keys := make([]string, 0, len(missing)+1)
	hasPrice := false
	for _, k := range missing {
		keys = append(keys, k)
		if k == "price" {
			hasPrice = true
		}
	}
	if !hasPrice {
		keys = append(keys, "price")
	}
	return keys
}

func buildSearchPrompt(s *schema.Schema, req model.Request, keys []string) string {
	var b strings.Builder
	b.WriteString("Find the following details for this product:\n")
	b.WriteString("Product: " + req.ProductName + "\n")
	if req.Brand != "" {
		b.WriteString("Brand: " + req.Brand + "\n")
	}
	if req.ProductURL != "" {
		b.WriteString("URL: " + req.ProductURL + "\n")
	}
	b.WriteString("\nRequested fields:\n")
	for _, k := range keys {
		desc := ""
		if f := s.Field(k); f != nil {
			desc = f.Description
		}
		if desc == "" {
			desc = k
		}
		b.WriteString("- " + k + ": " + desc + "\n")
	}
	b.WriteString("- " + schema.PurchaseURLField + ": a direct link where the product can be purchased\n")
	b.WriteString("\nRespond with one JSON object keyed by the field names above, plus \"confidence\" and \"source_url\".")
	return b.String()
}

// parseFallbackAnswer decodes the provider's flat JSON answer. Unlike a
// primary-extraction parse failure, an unparsable answer here is an error:
// the orchestrator reports it as a failed web search and keeps the
// first-pass data.
func parseFallbackAnswer(text string, s *schema.Schema, keys []string, defaultConfidence float64) (*FallbackAnswer, error) {
	ans := &FallbackAnswer{
		Values:     make(model.Record),
		Confidence: defaultConfidence,
	}

	span, err := ExtractJSONObject(text)
	if err != nil {
		return nil, eris.Wrap(err, "search: no JSON object in answer")
	}

	var flat map[string]any
	if err := json.Unmarshal([]byte(span), &flat); err != nil {
		return nil, eris.Wrap(err, "search: parse answer JSON")
	}

	if c, ok := flat["confidence"].(float64); ok && c > 0 {
		ans.Confidence = clamp01(c)
	}
	if u, ok := flat["source_url"].(string); ok {
		ans.SourceURL = u
	}

	wanted := make(map[string]bool, len(keys)+1)
	for _, k := range keys {
		wanted[k] = true
	}
	wanted[schema.PurchaseURLField] = true

	for k, v := range flat {
		if !wanted[k] {
			continue
		}
		if s.Field(k) == nil && k != schema.PurchaseURLField {
			continue
		}
		ans.Values[k] = v
	}

	return ans, nil
}
