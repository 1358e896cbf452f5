package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-agent/internal/llm"
	"github.com/pdiddy/doc-agent/internal/rename"
	"github.com/pdiddy/doc-agent/pkg/types"
)

var renameCmd = &cobra.Command{
	Use:   "rename [directory]",
	Short: "Rename documents from their contents",
	Long: `Rename extracts text from each document in a directory, asks the model
for a short descriptive title, and renames the file to match. Name
collisions get a numeric suffix. Use --dry-run to preview.`,
	RunE: runRename,
}

func init() {
	renameCmd.Flags().StringSlice("ext", nil, "limit to these extensions (default: all supported)")
	renameCmd.Flags().Bool("dry-run", false, "report planned renames without touching files")
	renameCmd.Flags().Int("prompt-chars", 0, "max extracted characters sent to the model (default 3000)")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one directory to rename")
	}

	apiKey, _ := rootCmd.PersistentFlags().GetString("api-key")
	model, _ := rootCmd.PersistentFlags().GetString("model")

	gen, err := llm.NewGeminiClient(geminiKey(apiKey), model)
	if err != nil {
		return err
	}

	exts, _ := cmd.Flags().GetStringSlice("ext")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	promptChars, _ := cmd.Flags().GetInt("prompt-chars")

	cfg := types.RenameConfig{
		TargetDir:   args[0],
		Extensions:  exts,
		DryRun:      dryRun,
		PromptChars: promptChars,
	}

	wf := &rename.Workflow{Gen: gen}
	results, err := wf.Run(cmd.Context(), cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d file(s) renamed\n", len(results))
	return nil
}
