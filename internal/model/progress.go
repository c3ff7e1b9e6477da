package model

// Stage tags a progress event with the pipeline milestone it reports.
type Stage string

const (
	StageScraping         Stage = "scraping"
	StageScrapingDone     Stage = "scraping_done"
	StageScrapingFailed   Stage = "scraping_failed"
	StageAnalyzing        Stage = "analyzing"
	StageFieldFound       Stage = "field_found"
	StageFieldNotFound    Stage = "field_not_found"
	StageFirstPassDone    Stage = "first_pass_done"
	StageWebSearch        Stage = "web_search"
	StageWebSearchDone    Stage = "web_search_done"
	StageWebSearchFailed  Stage = "web_search_failed"
	StageWebSearchSkipped Stage = "web_search_skipped"
)

// Progress event sources.
const (
	SourcePrimary   = "primary"
	SourceWebSearch = "web_search"
)

// ProgressEvent describes one pipeline milestone. Events are transient:
// they exist only as a stream observed by the caller during a run.
type ProgressEvent struct {
	Stage      Stage   `json:"stage"`
	Field      string  `json:"field,omitempty"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Message    string  `json:"message,omitempty"`
	Index      int     `json:"index,omitempty"`
}

// ProgressFunc receives progress events synchronously in emission order.
// The pipeline calls it inline: a panicking sink propagates and aborts
// the run. A nil ProgressFunc disables progress reporting.
type ProgressFunc func(ProgressEvent)
