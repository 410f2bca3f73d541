// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markdown-engine/internal/convert"
	"github.com/pdiddy/markdown-engine/internal/secrets"
	"github.com/pdiddy/markdown-engine/internal/token"
	"github.com/pdiddy/markdown-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert HTML files to structured Markdown",
	Long: `Convert transforms HTML files into structured Markdown. Each file's
header metadata (title and named meta annotations) becomes a YAML front
matter block at the top of the output; documents larger than the model's
input budget are converted in overlapping token windows.

Output is written to --out-dir as <name>.md plus a <name>-meta.yaml
metadata sidecar. With --stdout the Markdown of a single input is printed
instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("model", "claude-sonnet-4-5-20250929", "AI model identifier for conversion")
	convertCmd.Flags().String("api-key", "", "Claude API key (default: .secrets/anthropic-api-key)")
	convertCmd.Flags().Int("max-model-tokens", types.DefaultMaxModelTokens, "total-token threshold above which a document is split")
	convertCmd.Flags().Int("max-window-tokens", types.DefaultMaxWindowTokens, "new tokens per window")
	convertCmd.Flags().Int("overlap-tokens", types.DefaultOverlapTokens, "tokens repeated between windows for context")
	convertCmd.Flags().Int("context-tail-tokens", types.DefaultContextTailTokens, "previous output carried into the next request (0 disables)")
	convertCmd.Flags().Bool("metadata", true, "include extracted metadata as YAML front matter")
	convertCmd.Flags().String("out-dir", "markdown", "directory for Markdown output")
	convertCmd.Flags().Bool("stdout", false, "print the Markdown of a single input instead of writing files")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := resolveConversionConfig(cmd)
	if err := cfg.Chunking.Validate(); err != nil {
		return err
	}

	apiKey := secrets.Get(loadedSecrets, "anthropic-api-key", cfg.APIKey)
	if apiKey == "" {
		return fmt.Errorf("no API key: pass --api-key or create .secrets/anthropic-api-key")
	}

	codec, err := token.NewCodec()
	if err != nil {
		return err
	}

	backend := &convert.ClaudeBackend{
		APIKey:          apiKey,
		Model:           cfg.Model,
		MaxOutputTokens: cfg.MaxOutputTokens,
		MaxRetries:      cfg.MaxRetries,
	}

	pipeline, err := convert.NewPipeline(backend, codec, cfg.Chunking, cfg.IncludeMetadata, os.Stderr)
	if err != nil {
		return err
	}

	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toStdout {
		if len(args) != 1 {
			return fmt.Errorf("--stdout accepts exactly one file, got %d", len(args))
		}
		doc, err := convert.LoadDocument(args[0])
		if err != nil {
			return err
		}
		res := pipeline.Run(cmd.Context(), doc.HTML)
		if res.Stop == types.StopFailed && res.WindowsConverted == 0 {
			return fmt.Errorf("converting %s: %w", doc.ID, res.Err)
		}
		fmt.Fprintln(os.Stdout, res.Markdown)
		if res.Truncated() && res.Stop != types.StopSentinel {
			fmt.Fprintf(os.Stderr, "warning: output truncated (%s after %d/%d windows)\n",
				res.Stop, res.WindowsConverted, res.WindowsPlanned)
		}
		return nil
	}

	docs := make([]types.Document, 0, len(args))
	for _, path := range args {
		doc, err := convert.LoadDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	result := convert.ConvertBatch(cmd.Context(), pipeline, docs, cfg.OutDir, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d documents failed", result.Failed, result.Total())
	}
	return nil
}

// resolveConversionConfig merges flag values over the viper configuration.
// An explicitly set flag always wins; otherwise a config file or
// MARKDOWN_ENGINE_* environment value applies.
func resolveConversionConfig(cmd *cobra.Command) types.ConversionConfig {
	cfg := types.ConversionConfig{
		AIConfig: types.AIConfig{
			Model:           stringSetting(cmd, "model", "conversion.model"),
			APIKey:          stringSetting(cmd, "api-key", "conversion.api_key"),
			MaxOutputTokens: viper.GetInt("conversion.max_output_tokens"),
			MaxRetries:      viper.GetInt("conversion.max_retries"),
		},
		Chunking: types.ChunkingConfig{
			MaxModelTokens:    intSetting(cmd, "max-model-tokens", "chunking.max_model_tokens"),
			MaxWindowTokens:   intSetting(cmd, "max-window-tokens", "chunking.max_window_tokens"),
			OverlapTokens:     intSetting(cmd, "overlap-tokens", "chunking.overlap_tokens"),
			ContextTailTokens: intSetting(cmd, "context-tail-tokens", "chunking.context_tail_tokens"),
		},
		IncludeMetadata: boolSetting(cmd, "metadata", "conversion.include_metadata"),
		OutDir:          stringSetting(cmd, "out-dir", "conversion.out_dir"),
	}
	return cfg
}

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}
