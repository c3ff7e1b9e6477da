package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List supported categories and their fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := schema.Default()

		type categoryDoc struct {
			Category model.Category     `yaml:"category"`
			Fields   []schema.FieldSpec `yaml:"fields"`
		}

		var out []categoryDoc
		for _, c := range reg.Categories() {
			s, err := reg.ByCategory(c)
			if err != nil {
				continue
			}
			out = append(out, categoryDoc{Category: c, Fields: s.Fields})
		}

		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close() //nolint:errcheck
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
