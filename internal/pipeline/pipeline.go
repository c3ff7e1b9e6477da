package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shelfsense/enrich-cli/internal/config"
	"github.com/shelfsense/enrich-cli/internal/fetch"
	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
	"github.com/shelfsense/enrich-cli/internal/store"
	"github.com/shelfsense/enrich-cli/pkg/anthropic"
	"github.com/shelfsense/enrich-cli/pkg/perplexity"
)

// Pipeline orchestrates one enrichment run: fetch, primary extraction,
// normalization, confidence evaluation, optional web-search fallback,
// merge. It is safe for concurrent use; each Run is independent.
type Pipeline struct {
	cfg     config.PipelineConfig
	aiCfg   config.AnthropicConfig
	pxModel string

	ai      anthropic.Client
	px      perplexity.Client // nil disables the fallback search
	fetcher *fetch.Fetcher
	store   store.Store // nil disables run persistence
	reg     *schema.Registry

	limiter *rate.Limiter // paces per-field progress events, nil when disabled
}

// New assembles a pipeline. The perplexity client and store may be nil;
// the corresponding stages are skipped gracefully.
func New(
	cfg *config.Config,
	ai anthropic.Client,
	px perplexity.Client,
	fetcher *fetch.Fetcher,
	st store.Store,
	reg *schema.Registry,
) *Pipeline {
	p := &Pipeline{
		cfg:     cfg.Pipeline,
		aiCfg:   cfg.Anthropic,
		pxModel: cfg.Perplexity.Model,
		ai:      ai,
		px:      px,
		fetcher: fetcher,
		store:   st,
		reg:     reg,
	}
	if cfg.Pipeline.PacingDelayMS > 0 {
		interval := time.Duration(cfg.Pipeline.PacingDelayMS) * time.Millisecond
		p.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return p
}

// Run executes the pipeline for one request. It never returns an error:
// every failure mode is folded into the result, so callers always get a
// terminal EnrichmentResult.
func (p *Pipeline) Run(ctx context.Context, req model.Request, onEvent model.ProgressFunc) *model.EnrichmentResult {
	log := zap.L().With(
		zap.String("product", req.ProductName),
		zap.String("category", string(req.Category)),
	)

	result := &model.EnrichmentResult{}
	runID := p.createRun(ctx, req, log)
	result.RunID = runID

	s, err := p.reg.ByCategory(req.Category)
	if err != nil {
		result.Error = err.Error()
		p.finishRun(ctx, runID, result, log)
		return result
	}

	p.setRunStatus(ctx, runID, model.RunStatusRunning, log)

	content := p.fetchContent(ctx, req, onEvent, log)

	emit(onEvent, model.ProgressEvent{Stage: model.StageAnalyzing})
	rec, conf, usage, err := ExtractPrimary(ctx, p.ai, p.aiCfg, s, req, content, p.cfg.BaselineConfidence)
	if err != nil {
		log.Error("pipeline: primary extraction failed", zap.Error(err))
		result.Error = err.Error()
		result.Usage = usage
		p.finishRun(ctx, runID, result, log)
		return result
	}
	result.Usage.Add(usage)

	if s.Normalize != nil {
		rec = s.Normalize(rec)
	}

	statuses, missing := EvaluateFields(s, rec, conf, p.cfg.BaselineConfidence, p.cfg.FoundThreshold)
	for _, st := range statuses {
		p.pace(ctx)
		if st.Found {
			emit(onEvent, model.ProgressEvent{
				Stage:      model.StageFieldFound,
				Field:      st.Key,
				Source:     model.SourcePrimary,
				Confidence: st.Confidence,
			})
		} else {
			emit(onEvent, model.ProgressEvent{
				Stage: model.StageFieldNotFound,
				Field: st.Key,
			})
		}
	}
	emit(onEvent, model.ProgressEvent{
		Stage:   model.StageFirstPassDone,
		Message: fmt.Sprintf("%d of %d fields found", len(statuses)-len(missing), len(statuses)),
	})

	rec, conf = p.runFallback(ctx, s, req, rec, conf, missing, onEvent, log)

	result.Success = true
	result.Data = rec
	result.FieldConfidence = conf
	p.finishRun(ctx, runID, result, log)
	return result
}

// fetchContent scrapes the product page when a URL is present. Scrape
// failures degrade to identity-only extraction.
func (p *Pipeline) fetchContent(ctx context.Context, req model.Request, onEvent model.ProgressFunc, log *zap.Logger) string {
	if req.ProductURL == "" || p.fetcher == nil {
		return ""
	}

	emit(onEvent, model.ProgressEvent{Stage: model.StageScraping, Message: req.ProductURL})
	content, err := p.fetcher.Fetch(ctx, req.ProductURL)
	if err != nil {
		log.Warn("pipeline: scrape failed", zap.String("url", req.ProductURL), zap.Error(err))
		emit(onEvent, model.ProgressEvent{Stage: model.StageScrapingFailed, Message: err.Error()})
		return ""
	}
	emit(onEvent, model.ProgressEvent{Stage: model.StageScrapingDone})
	return content
}

// runFallback performs the secondary web search for missing fields. Every
// path that does not invoke the search emits web_search_skipped.
func (p *Pipeline) runFallback(
	ctx context.Context,
	s *schema.Schema,
	req model.Request,
	rec model.Record,
	conf model.ConfidenceMap,
	missing []string,
	onEvent model.ProgressFunc,
	log *zap.Logger,
) (model.Record, model.ConfidenceMap) {
	switch {
	case len(missing) == 0:
		emit(onEvent, model.ProgressEvent{
			Stage:   model.StageWebSearchSkipped,
			Message: "all fields found in first pass",
		})
		return rec, conf
	case p.px == nil:
		emit(onEvent, model.ProgressEvent{
			Stage:   model.StageWebSearchSkipped,
			Message: "web search not configured",
		})
		return rec, conf
	}

	emit(onEvent, model.ProgressEvent{
		Stage:   model.StageWebSearch,
		Message: strings.Join(missing, ", "),
	})

	ans, err := SearchMissing(ctx, p.px, p.pxModel, s, req, missing, p.cfg.FallbackConfidence)
	if err != nil {
		log.Warn("pipeline: web search failed", zap.Error(err))
		emit(onEvent, model.ProgressEvent{Stage: model.StageWebSearchFailed, Message: err.Error()})
		return rec, conf
	}

	rec, conf, filled := MergeFallback(s, rec, conf, missing, ans)
	for _, k := range filled {
		p.pace(ctx)
		emit(onEvent, model.ProgressEvent{
			Stage:      model.StageFieldFound,
			Field:      k,
			Source:     model.SourceWebSearch,
			Confidence: conf[k],
		})
	}
	emit(onEvent, model.ProgressEvent{
		Stage:   model.StageWebSearchDone,
		Message: fmt.Sprintf("%d fields filled from web search", len(filled)),
	})
	return rec, conf
}

func (p *Pipeline) pace(ctx context.Context) {
	if p.limiter != nil {
		_ = p.limiter.Wait(ctx)
	}
}

// createRun persists the run row. Persistence is best-effort; a failing
// store is logged and the run proceeds without an ID.
func (p *Pipeline) createRun(ctx context.Context, req model.Request, log *zap.Logger) string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(ctx, req)
	if err != nil {
		log.Warn("pipeline: create run failed", zap.Error(err))
		return ""
	}
	return run.ID
}

func (p *Pipeline) setRunStatus(ctx context.Context, runID string, status model.RunStatus, log *zap.Logger) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
		log.Warn("pipeline: update run status failed", zap.Error(err))
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID string, result *model.EnrichmentResult, log *zap.Logger) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.UpdateRunResult(ctx, runID, result); err != nil {
		log.Warn("pipeline: update run result failed", zap.Error(err))
	}
}

func emit(onEvent model.ProgressFunc, ev model.ProgressEvent) {
	if onEvent != nil {
		onEvent(ev)
	}
}
