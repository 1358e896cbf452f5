package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-agent/internal/llm"
	"github.com/pdiddy/doc-agent/internal/research"
	"github.com/pdiddy/doc-agent/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Copy the PDFs relevant to a topic into a working directory",
	Long: `Research scores every PDF in the source directory against a topic
description and copies the ones at or above the threshold into the
destination directory. The topic comes from --topic or from a text
file given with --details.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("topic", "", "topic description to score against")
	researchCmd.Flags().String("details", "", "file containing the topic description")
	researchCmd.Flags().String("source", "downloads", "directory scanned for PDFs")
	researchCmd.Flags().String("dest", "relevant", "directory relevant PDFs are copied to")
	researchCmd.Flags().Float64("threshold", 0.5, "minimum relevance score to keep a PDF")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	details, _ := cmd.Flags().GetString("details")

	if topic == "" && details == "" {
		return fmt.Errorf("provide a topic with --topic or --details")
	}
	if details != "" {
		data, err := os.ReadFile(details)
		if err != nil {
			return fmt.Errorf("reading details file: %w", err)
		}
		topic = strings.TrimSpace(string(data))
	}
	if topic == "" {
		return fmt.Errorf("topic description is empty")
	}

	apiKey, _ := rootCmd.PersistentFlags().GetString("api-key")
	model, _ := rootCmd.PersistentFlags().GetString("model")

	gen, err := llm.NewGeminiClient(geminiKey(apiKey), model)
	if err != nil {
		return err
	}

	source, _ := cmd.Flags().GetString("source")
	dest, _ := cmd.Flags().GetString("dest")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	cfg := types.ResearchConfig{
		SourceDir: source,
		DestDir:   dest,
		Threshold: threshold,
	}

	wf := &research.Workflow{Gen: gen}
	kept, err := wf.Run(cmd.Context(), cfg, topic, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d relevant PDF(s) copied to %s\n", len(kept), dest)
	return nil
}
