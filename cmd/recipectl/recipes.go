package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/models"
)

func decodeRecipes(data []byte) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("expected a JSON array of recipes: %w", err)
	}
	return recipes, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newEnrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich [file|-]",
		Short: "Add nutrition tags to a JSON array of recipes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			recipes, err := decodeRecipes(data)
			if err != nil {
				return err
			}
			for i := range recipes {
				recipes[i] = core.Enrich(recipes[i])
			}
			logger.Debug("Enriched recipes", zap.Int("recipes", len(recipes)))
			return writeJSON(cmd, recipes)
		},
	}
}

func newCategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize [file|-]",
		Short: "Print the category label of a book given as a JSON array of recipes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			recipes, err := decodeRecipes(data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Categorize(recipes))
			return nil
		},
	}
}

func newPromptCmd() *cobra.Command {
	var bookFile string

	cmd := &cobra.Command{
		Use:   "prompt [topic]",
		Short: "Print the generator prompt for a topic, or the replication prompt of a book",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bookFile != "" {
				data, err := readInput(cmd, []string{bookFile})
				if err != nil {
					return err
				}
				var book models.RecipeBook
				if err := json.Unmarshal(data, &book); err != nil {
					return fmt.Errorf("expected a JSON recipe book: %w", err)
				}
				prompt, err := core.BuildReplicationPrompt(book)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), prompt)
				return nil
			}

			prompt, err := core.BuildPrompt(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		},
	}
	cmd.Flags().StringVar(&bookFile, "book", "", "Recipe book JSON file to build a replication prompt from.")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		topic  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Validate pasted generator output and show the book it would create",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			recipes, err := core.ParseImport(string(data), func() string { return "rcp-" + uuid.NewString() })
			if err != nil {
				return err
			}
			if len(recipes) == 0 {
				return fmt.Errorf("%w: the array contains no recipes", core.ErrInvalidImport)
			}

			title := strings.ToUpper(strings.TrimSpace(topic))
			if title == "" {
				title = core.DefaultBookTitle
			}
			if asJSON {
				return writeJSON(cmd, models.RecipeBook{
					ID:       "book-" + uuid.NewString(),
					Title:    title,
					Subtitle: core.DefaultBookSubtitle,
					Recipes:  recipes,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) - %d recipes\n", title, core.Categorize(recipes), len(recipes))
			for _, r := range recipes {
				fmt.Fprintf(out, "  %s [%s]\n", r.Title, strings.Join(r.Tags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "Topic the book was generated for.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resulting book as JSON.")
	return cmd
}
