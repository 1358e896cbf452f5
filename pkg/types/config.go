package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doc-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScorerConfig holds settings for LLM relevance scoring.
type ScorerConfig struct {
	// Model is the generative model identifier (e.g. "models/gemini-2.5-pro").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MinInterval is the minimum spacing between scoring calls. The
	// default of 12.1s keeps one agent under a 5-requests/minute quota.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`

	// MaxRetries is the number of attempts per score before giving up
	// and treating the candidate as not relevant (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ScholarConfig holds settings for the scholar search-and-download pipeline.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// TermsFile is the path to the line-oriented search terms file.
	TermsFile string `json:"terms_file" yaml:"terms_file"`

	// NumResults is the maximum number of results scraped per query (default 20).
	NumResults int `json:"num_results" yaml:"num_results"`

	// TopN is how many scored candidates are selected for download (default 3).
	TopN int `json:"top_n" yaml:"top_n"`

	// MaxDownloads is the successful-download budget per query (default 3).
	MaxDownloads int `json:"max_downloads" yaml:"max_downloads"`

	// DownloadDir is the destination directory for fetched PDFs.
	DownloadDir string `json:"download_dir" yaml:"download_dir"`
}

// RenameConfig holds settings for the rename workflow.
type RenameConfig struct {
	// TargetDir is the directory scanned for files to rename.
	TargetDir string `json:"target_dir" yaml:"target_dir"`

	// Extensions limits the scan to these extensions (e.g. ".pdf").
	// Empty means all supported document types.
	Extensions []string `json:"extensions" yaml:"extensions"`

	// DryRun reports planned renames without touching the filesystem.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// PromptChars caps how much extracted text is embedded in the
	// naming prompt (default 3000).
	PromptChars int `json:"prompt_chars" yaml:"prompt_chars"`
}

// ResearchConfig holds settings for the research filter workflow.
type ResearchConfig struct {
	// SourceDir is the directory scanned for PDFs to score.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// DestDir is where relevant PDFs are copied.
	DestDir string `json:"dest_dir" yaml:"dest_dir"`

	// Threshold is the minimum relevance score for a PDF to be kept
	// (default 0.5).
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// LibraryConfig holds settings for the download library store.
type LibraryConfig struct {
	// Path is the SQLite database file (default "doc-agent.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scorer   ScorerConfig   `json:"scorer" yaml:"scorer"`
	Scholar  ScholarConfig  `json:"scholar" yaml:"scholar"`
	Rename   RenameConfig   `json:"rename" yaml:"rename"`
	Research ResearchConfig `json:"research" yaml:"research"`
	Library  LibraryConfig  `json:"library" yaml:"library"`
}
