package model

import "time"

// EnrichmentResult is the terminal value of one pipeline run. Success=false
// means the pipeline failed to run at all (unknown category, provider
// transport failure); success=true with low-confidence gaps means the
// pipeline ran and FieldConfidence reveals what is missing.
type EnrichmentResult struct {
	Success         bool          `json:"success"`
	Data            Record        `json:"data,omitempty"`
	FieldConfidence ConfidenceMap `json:"field_confidence,omitempty"`
	Error           string        `json:"error,omitempty"`
	RunID           string        `json:"run_id,omitempty"`
	Usage           TokenUsage    `json:"usage,omitzero"`
}

// TokenUsage tracks completion-provider token consumption across a run.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add accumulates usage from one provider call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// RunStatus tracks a persisted run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted enrichment run.
type Run struct {
	ID        string            `json:"id"`
	Request   Request           `json:"request"`
	Status    RunStatus         `json:"status"`
	Result    *EnrichmentResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
