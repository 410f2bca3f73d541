// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Default chunking parameters. The model limit matches the input budget of
// the conversion model; the window and overlap sizes follow the sliding
// window strategy documented in prd001-chunking.
const (
	DefaultMaxModelTokens    = 4096
	DefaultMaxWindowTokens   = 1000
	DefaultOverlapTokens     = 100
	DefaultContextTailTokens = 300
)

// ChunkingConfig holds the sliding-window parameters for documents whose
// token count exceeds the model limit.
// Per prd001-chunking R2.1-R2.4.
type ChunkingConfig struct {
	// MaxModelTokens is the total-token threshold above which a document is
	// split. Counted over the whole document, header included.
	MaxModelTokens int `json:"max_model_tokens" yaml:"max_model_tokens"`

	// MaxWindowTokens is the number of new (non-overlap) tokens per window.
	MaxWindowTokens int `json:"max_window_tokens" yaml:"max_window_tokens"`

	// OverlapTokens is the number of tokens repeated from the end of the
	// previous window into the start of the next, for context continuity.
	// Must be strictly smaller than MaxWindowTokens.
	OverlapTokens int `json:"overlap_tokens" yaml:"overlap_tokens"`

	// ContextTailTokens caps the amount of previous output carried into the
	// next conversion request. 0 disables context threading.
	ContextTailTokens int `json:"context_tail_tokens" yaml:"context_tail_tokens"`
}

// DefaultChunking returns the chunking parameters used when no configuration
// is supplied.
func DefaultChunking() ChunkingConfig {
	return ChunkingConfig{
		MaxModelTokens:    DefaultMaxModelTokens,
		MaxWindowTokens:   DefaultMaxWindowTokens,
		OverlapTokens:     DefaultOverlapTokens,
		ContextTailTokens: DefaultContextTailTokens,
	}
}

// Validate rejects degenerate window geometry. It must be called before any
// conversion work starts; a bad configuration is fatal, not recoverable.
func (c ChunkingConfig) Validate() error {
	if c.MaxWindowTokens <= 0 {
		return fmt.Errorf("max window tokens must be positive, got %d", c.MaxWindowTokens)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("overlap tokens must not be negative, got %d", c.OverlapTokens)
	}
	if c.OverlapTokens >= c.MaxWindowTokens {
		return fmt.Errorf("overlap tokens (%d) must be smaller than max window tokens (%d)", c.OverlapTokens, c.MaxWindowTokens)
	}
	if c.MaxModelTokens <= 0 {
		return fmt.Errorf("max model tokens must be positive, got %d", c.MaxModelTokens)
	}
	if c.ContextTailTokens < 0 {
		return fmt.Errorf("context tail tokens must not be negative, got %d", c.ContextTailTokens)
	}
	return nil
}

// AIConfig holds settings for the Generative AI API used for conversion.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxOutputTokens limits the response size per conversion request
	// (default 4096).
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// MaxRetries is the number of retry attempts for rate-limited API
	// calls (default 3). Retrying is the HTTP client's contract; a request
	// that fails after retries terminates the run.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ConversionConfig groups all settings for the conversion stage.
type ConversionConfig struct {
	AIConfig `yaml:",inline"`

	// Chunking holds the sliding-window parameters.
	Chunking ChunkingConfig `json:"chunking" yaml:"chunking"`

	// IncludeMetadata controls whether the extracted header metadata is
	// rendered as YAML front matter at the top of the output.
	IncludeMetadata bool `json:"include_metadata" yaml:"include_metadata"`

	// OutDir is the directory Markdown output is written to (default "markdown").
	OutDir string `json:"out_dir" yaml:"out_dir"`
}
