// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc-agent CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-agent/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// geminiKey resolves the Gemini API key, preferring the explicit flag
// value, then the GEMINI_API_KEY environment variable, then .secrets/.
func geminiKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		return v
	}
	return loadedSecrets["gemini-api-key"]
}

// rootCmd is the base command for the doc-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "doc-agent",
	Short: "LLM-assisted document acquisition and organization",
	Long: `doc-agent automates document work that needs a model in the loop. The
scholar subcommand searches Google Scholar for papers matching search
terms, scores each result for relevance, and downloads the best PDFs.
The rename subcommand proposes descriptive filenames from document
contents, and research copies the PDFs relevant to a topic into a
working directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; a missing file is not an error.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc-agent.yaml or ~/.config/doc-agent/config.yaml)")
	rootCmd.PersistentFlags().String("api-key", "", "Gemini API key (default: GEMINI_API_KEY or .secrets/gemini-api-key)")
	rootCmd.PersistentFlags().String("model", "gemini-2.5-flash", "generative model used for scoring and naming")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc-agent"))
		}
	}

	viper.SetEnvPrefix("DOC_AGENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
