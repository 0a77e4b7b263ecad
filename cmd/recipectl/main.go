// recipectl is an operator tool for the recipe studio: it runs the tag
// enrichment and categorization offline, builds generator prompts, validates
// pasted imports and follows library sync events.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "recipectl",
		Short:         "Recipe studio operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("while creating logger: %w", err)
			}
			logger = l
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr.")

	root.AddCommand(
		newEnrichCmd(),
		newCategorizeCmd(),
		newPromptCmd(),
		newImportCmd(),
		newEventsCmd(),
	)
	return root
}

// readInput reads the file named by args[0], or stdin when there is no
// argument or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", args[0], err)
	}
	return data, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "recipectl:", err)
		os.Exit(1)
	}
}
