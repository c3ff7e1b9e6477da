package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfsense/enrich-cli/internal/model"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich a batch of products from a JSON file",
	Long:  "Reads a JSON array of items ({name, brand, url, category}) and enriches them sequentially. Results are written to stdout as JSON lines.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		items, err := loadBatchFile(batchFile)
		if err != nil {
			return err
		}
		if len(items) > cfg.Batch.Limit {
			return eris.Errorf("batch has %d items, limit is %d", len(items), cfg.Batch.Limit)
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		enc := json.NewEncoder(os.Stdout)

		var failed int
		env.Pipeline.RunBatch(ctx, items, func(ev model.ProgressEvent) {
			logProgress(ev)
		}, func(i int, result *model.EnrichmentResult) {
			if !result.Success {
				failed++
			}
			_ = enc.Encode(struct {
				Index int    `json:"index"`
				Name  string `json:"name"`
				*model.EnrichmentResult
			}{Index: i, Name: items[i].Name, EnrichmentResult: result})
		})

		zap.L().Info("batch finished",
			zap.Int("items", len(items)),
			zap.Int("failed", failed),
		)
		return nil
	},
}

// loadBatchFile parses the batch input: a JSON array of items.
func loadBatchFile(path string) ([]model.BatchItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read batch file")
	}

	var items []model.BatchItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, eris.Wrap(err, "parse batch file")
	}
	if len(items) == 0 {
		return nil, eris.New("batch file contains no items")
	}
	for i, item := range items {
		if item.Name == "" {
			return nil, eris.Errorf("batch item %d: name is required", i)
		}
		if item.Category == "" {
			return nil, eris.Errorf("batch item %d: category is required", i)
		}
	}
	return items, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "path to JSON batch file (required)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
