package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfsense/enrich-cli/internal/model"
)

var (
	enrichName     string
	enrichBrand    string
	enrichURL      string
	enrichCategory string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single product",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		category, err := model.ParseCategory(enrichCategory)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.Request{
			ProductName: enrichName,
			Brand:       enrichBrand,
			ProductURL:  enrichURL,
			Category:    category,
		}

		result := env.Pipeline.Run(ctx, req, logProgress)

		zap.L().Info("enrichment finished",
			zap.String("product", req.ProductName),
			zap.Bool("success", result.Success),
			zap.Int("fields", len(result.Data)),
			zap.Int64("input_tokens", result.Usage.InputTokens),
			zap.Int64("output_tokens", result.Usage.OutputTokens),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// logProgress mirrors the pipeline's progress stream into the log.
func logProgress(ev model.ProgressEvent) {
	fields := []zap.Field{zap.String("stage", string(ev.Stage))}
	if ev.Field != "" {
		fields = append(fields, zap.String("field", ev.Field))
	}
	if ev.Source != "" {
		fields = append(fields, zap.String("source", ev.Source))
	}
	if ev.Confidence > 0 {
		fields = append(fields, zap.Float64("confidence", ev.Confidence))
	}
	if ev.Message != "" {
		fields = append(fields, zap.String("message", ev.Message))
	}
	zap.L().Info("progress", fields...)
}

func init() {
	enrichCmd.Flags().StringVar(&enrichName, "name", "", "product name (required)")
	enrichCmd.Flags().StringVar(&enrichBrand, "brand", "", "brand name")
	enrichCmd.Flags().StringVar(&enrichURL, "url", "", "product page URL")
	enrichCmd.Flags().StringVar(&enrichCategory, "category", "", "product category (required)")
	_ = enrichCmd.MarkFlagRequired("name")
	_ = enrichCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(enrichCmd)
}
