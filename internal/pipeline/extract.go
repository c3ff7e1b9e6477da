package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfsense/enrich-cli/internal/config"
	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
	"github.com/shelfsense/enrich-cli/pkg/anthropic"
)

// reserved top-level keys of the extraction payload that are not product
// fields.
var reservedPayloadKeys = map[string]bool{
	"product":          true,
	"field_confidence": true,
	"confidence":       true,
	"reasoning":        true,
}

// ExtractPrimary runs the single primary extraction call. A provider
// transport error is returned to the orchestrator (fatal); an unparsable
// response degrades to an empty record so downstream stages see an
// all-missing first pass.
func ExtractPrimary(
	ctx context.Context,
	ai anthropic.Client,
	aiCfg config.AnthropicConfig,
	s *schema.Schema,
	req model.Request,
	content string,
	baseline float64,
) (model.Record, model.ConfidenceMap, model.TokenUsage, error) {
	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     aiCfg.Model,
		MaxTokens: aiCfg.MaxTokens,
		System:    s.Instructions,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildExtractionPrompt(req, content)},
		},
	})
	if err != nil {
		return nil, nil, model.TokenUsage{}, err
	}

	usage := model.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}

	rec, conf := parseExtractionPayload(resp.Text(), s, baseline)
	return rec, conf, usage, nil
}

// buildExtractionPrompt assembles the product identity and scraped content
// into the user prompt.
func buildExtractionPrompt(req model.Request, content string) string {
	var b strings.Builder
	b.WriteString("Product: " + req.ProductName + "\n")
	if req.Brand != "" {
		b.WriteString("Brand: " + req.Brand + "\n")
	}
	if req.ProductURL != "" {
		b.WriteString("URL: " + req.ProductURL + "\n")
	}
	if len(req.ExistingData) > 0 {
		if known, err := json.Marshal(req.ExistingData); err == nil {
			b.WriteString("Known data: " + string(known) + "\n")
		}
	}
	if content != "" {
		b.WriteString("\nPage content:\n")
		b.WriteString(content)
	} else {
		b.WriteString("\nNo page content is available. Use only the product identity above.")
	}
	return b.String()
}

// parseExtractionPayload decodes the provider's response text. Parse
// failures are never fatal: the run continues with an all-missing record.
func parseExtractionPayload(text string, s *schema.Schema, baseline float64) (model.Record, model.ConfidenceMap) {
	rec := make(model.Record)
	conf := make(model.ConfidenceMap)

	span, err := ExtractJSONObject(text)
	if err != nil {
		zap.L().Warn("extract: no JSON object in response", zap.Error(err))
		return rec, conf
	}

	var payload struct {
		Product         map[string]any     `json:"product"`
		FieldConfidence map[string]float64 `json:"field_confidence"`
		Confidence      float64            `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		zap.L().Warn("extract: failed to parse response JSON", zap.Error(err))
		return rec, conf
	}

	fields := payload.Product
	if fields == nil {
		// Some responses flatten the product fields to the top level.
		var flat map[string]any
		if err := json.Unmarshal([]byte(span), &flat); err == nil {
			fields = make(map[string]any, len(flat))
			for k, v := range flat {
				if !reservedPayloadKeys[k] {
					fields[k] = v
				}
			}
		}
	}

	// Keep only schema fields plus the purchase-link auxiliary.
	for k, v := range fields {
		if s.Field(k) == nil && k != schema.PurchaseURLField {
			continue
		}
		rec[k] = v
	}

	fallbackBaseline := payload.Confidence
	if fallbackBaseline <= 0 {
		fallbackBaseline = baseline
	}
	for k := range rec {
		if c, ok := payload.FieldConfidence[k]; ok {
			conf[k] = clamp01(c)
		} else if !model.IsEmptyValue(rec[k]) {
			conf[k] = clamp01(fallbackBaseline)
		}
	}

	return rec, conf
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
