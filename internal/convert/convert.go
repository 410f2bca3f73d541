// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives HTML-to-Markdown conversion through a generative
// backend, splitting oversized documents into overlapping token windows and
// stitching the partial results back together.
// Implements: prd001-chunking (R3), prd002-conversion (R1, R3, R4);
//
//	docs/ARCHITECTURE § Conversion.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markdown-engine/internal/chunk"
	"github.com/pdiddy/markdown-engine/internal/meta"
	"github.com/pdiddy/markdown-engine/pkg/types"
)

// Request carries one window's conversion payload to the backend.
type Request struct {
	// ChunkHTML is the window text, overlap included for later windows.
	ChunkHTML string

	// PreviousMarkdown is the carried tail of the previous window's output.
	// Empty for the first window.
	PreviousMarkdown string

	// HeaderBlock is the rendered front matter. Only honored when
	// IncludeHeader is set, which holds for the first window alone.
	HeaderBlock   string
	IncludeHeader bool
}

// Backend converts one HTML chunk to Markdown. Implementations must report
// failures synchronously and must never emit the Sentinel marker as
// content; the pipeline treats its appearance as end of document.
type Backend interface {
	Convert(ctx context.Context, req Request) (string, error)
}

// Codec is the token codec the pipeline measures and splits with.
// Satisfied by token.Codec; tests substitute a deterministic fake.
type Codec interface {
	Encode(text string) []int
	Decode(tokens []int) string
	Count(text string) int
	Tail(text string, n int) string
}

// Pipeline converts one document at a time. Each Run is independent; no
// state crosses documents.
type Pipeline struct {
	backend         Backend
	codec           Codec
	chunking        types.ChunkingConfig
	includeMetadata bool
	w               io.Writer
}

// NewPipeline validates the chunking configuration and builds a pipeline.
// Geometry errors are fatal here, before any conversion call is made.
func NewPipeline(backend Backend, codec Codec, chunking types.ChunkingConfig, includeMetadata bool, w io.Writer) (*Pipeline, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if codec == nil {
		return nil, fmt.Errorf("codec is required")
	}
	if err := chunking.Validate(); err != nil {
		return nil, fmt.Errorf("chunking config: %w", err)
	}
	if w == nil {
		w = io.Discard
	}
	return &Pipeline{
		backend:         backend,
		codec:           codec,
		chunking:        chunking,
		includeMetadata: includeMetadata,
		w:               w,
	}, nil
}

// Run converts one HTML document. A document whose body has no text
// short-circuits to an empty result. A backend failure or an empty model
// response stops the window loop; the windows already converted are still
// aggregated and returned with the stop reason.
func (p *Pipeline) Run(ctx context.Context, htmlContent string) types.Result {
	if !meta.HasContent(htmlContent) {
		fmt.Fprintln(p.w, "no body content, skipping conversion")
		return types.Result{Metadata: types.NewMetadata(), Stop: types.StopEmpty}
	}

	metadata := meta.Extract(htmlContent)
	headerBlock := ""
	if p.includeMetadata {
		headerBlock = meta.RenderHeader(metadata)
	}

	totalTokens := p.codec.Count(htmlContent)
	body := meta.StripHead(htmlContent)
	bodyTokens := p.codec.Encode(body)

	var windows []chunk.Window
	if totalTokens <= p.chunking.MaxModelTokens {
		windows = chunk.Single(bodyTokens)
	} else {
		planned, err := chunk.Plan(bodyTokens, p.chunking.MaxWindowTokens, p.chunking.OverlapTokens)
		if err != nil {
			// Geometry was validated at construction; a plan failure here
			// means the pipeline was built without NewPipeline.
			return types.Result{Metadata: metadata, Stop: types.StopFailed, Err: err}
		}
		windows = planned
	}
	fmt.Fprintf(p.w, "document: %d tokens, %d window(s)\n", totalTokens, len(windows))

	outputs := make([]string, 0, len(windows))
	stop := types.StopDone
	var runErr error
	previous := ""

	for _, win := range windows {
		output, err := p.backend.Convert(ctx, Request{
			ChunkHTML:        p.codec.Decode(win.Tokens),
			PreviousMarkdown: previous,
			HeaderBlock:      headerBlock,
			IncludeHeader:    win.Index == 0 && p.includeMetadata && metadata.Len() > 0,
		})
		if err != nil {
			fmt.Fprintf(p.w, "window %d: conversion failed: %v\n", win.Index, err)
			stop = types.StopFailed
			runErr = err
			break
		}
		if strings.TrimSpace(output) == "" {
			fmt.Fprintf(p.w, "window %d: empty output, stopping\n", win.Index)
			stop = types.StopStarved
			break
		}

		outputs = append(outputs, output)
		previous = p.codec.Tail(output, p.chunking.ContextTailTokens)

		if strings.Contains(output, Sentinel) {
			fmt.Fprintf(p.w, "window %d: end marker received\n", win.Index)
			stop = types.StopSentinel
			break
		}
	}

	withHeader := p.includeMetadata && metadata.Len() > 0
	return types.Result{
		Markdown:         aggregate(outputs, headerBlock, withHeader),
		Metadata:         metadata,
		WindowsPlanned:   len(windows),
		WindowsConverted: len(outputs),
		Stop:             stop,
		Err:              runErr,
	}
}

// escapeFixer normalizes stray escape sequences the model occasionally emits
// in place of real characters: a backslash-escaped colon becomes a colon,
// literal \n, \t and \r sequences are dropped.
var escapeFixer = strings.NewReplacer(`\:`, ":", `\n`, "", `\t`, "", `\r`, "")

// aggregate joins window outputs, strips every occurrence of the
// termination sentinel, applies the escape cleanup once, and guarantees the
// header block appears exactly once at the top when metadata is present.
// The header prepend covers runs where the first window failed before
// emitting it.
func aggregate(outputs []string, headerBlock string, withHeader bool) string {
	joined := strings.Join(outputs, "\n")
	joined = strings.ReplaceAll(joined, Sentinel, "")
	joined = escapeFixer.Replace(joined)
	joined = strings.TrimSpace(joined)

	if withHeader && !strings.HasPrefix(joined, "---") {
		joined = headerBlock + joined
	}
	return joined
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Partial   int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Partial + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertDocument runs one document through the pipeline and writes
// <id>.md plus an <id>-meta.yaml sidecar to outDir. An existing .md output
// skips the document. A truncated run still writes whatever was produced
// and reports ConversionPartial.
func ConvertDocument(ctx context.Context, p *Pipeline, doc types.Document, outDir string, w io.Writer) types.ConversionStatus {
	mdPath := filepath.Join(outDir, doc.ID+".md")

	if _, err := os.Stat(mdPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", doc.ID)
		return types.ConversionNone
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, err)
		return types.ConversionFailed
	}

	res := p.Run(ctx, doc.HTML)

	if res.Stop == types.StopEmpty {
		fmt.Fprintf(w, "skipped: %s (no body content)\n", doc.ID)
		return types.ConversionNone
	}
	if res.WindowsConverted == 0 {
		fmt.Fprintf(w, "failed:  %s (no windows converted, %s: %v)\n", doc.ID, res.Stop, res.Err)
		return types.ConversionFailed
	}

	if err := os.WriteFile(mdPath, []byte(res.Markdown+"\n"), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, err)
		return types.ConversionFailed
	}
	if res.Metadata.Len() > 0 {
		if err := writeMetadata(filepath.Join(outDir, doc.ID+"-meta.yaml"), res.Metadata); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, err)
			return types.ConversionFailed
		}
	}

	if res.Truncated() && res.Stop != types.StopSentinel {
		fmt.Fprintf(w, "truncated: %s (%s after %d/%d windows)\n", doc.ID, res.Stop, res.WindowsConverted, res.WindowsPlanned)
		return types.ConversionPartial
	}

	fmt.Fprintf(w, "converted: %s\n", doc.ID)
	return types.ConversionDone
}

// ConvertBatch processes documents in order, printing per-document status
// lines to w and returning a summary.
func ConvertBatch(ctx context.Context, p *Pipeline, docs []types.Document, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, doc := range docs {
		switch ConvertDocument(ctx, p, doc, outDir, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionPartial:
			result.Partial++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d partial, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Partial, result.Skipped, result.Failed, result.Total())
	return result
}

// LoadDocument reads an HTML file into a Document with an ID derived from
// the filename.
func LoadDocument(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return types.Document{
		ID:   base,
		Path: path,
		HTML: string(data),
	}, nil
}

// writeMetadata marshals the ordered metadata map to a YAML sidecar file.
func writeMetadata(path string, md *types.Metadata) error {
	data, err := yaml.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
