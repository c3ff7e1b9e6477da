package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shelfsense/enrich-cli/internal/fetch"
	"github.com/shelfsense/enrich-cli/internal/pipeline"
	"github.com/shelfsense/enrich-cli/internal/schema"
	"github.com/shelfsense/enrich-cli/internal/store"
	anthropicpkg "github.com/shelfsense/enrich-cli/pkg/anthropic"
	"github.com/shelfsense/enrich-cli/pkg/perplexity"
)

// env bundles everything a command needs to run enrichments.
type env struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
	Registry *schema.Registry
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore builds the configured persistence backend, or nil when
// persistence is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initPipeline builds the full pipeline environment from config.
func initPipeline(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	if cfg.Anthropic.Key == "" {
		if st != nil {
			_ = st.Close()
		}
		return nil, eris.New("anthropic key is required (ENRICH_ANTHROPIC_KEY)")
	}
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	var perplexityClient perplexity.Client
	if cfg.Perplexity.Key != "" {
		perplexityClient = perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model))
	} else {
		zap.L().Warn("perplexity key not set, web-search fallback disabled")
	}

	fetcher := fetch.New(
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithContentBudget(cfg.Fetch.ContentBudget),
	)

	reg := schema.Default()

	return &env{
		Pipeline: pipeline.New(cfg, anthropicClient, perplexityClient, fetcher, st, reg),
		Store:    st,
		Registry: reg,
	}, nil
}
