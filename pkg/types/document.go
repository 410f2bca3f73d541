// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "go.yaml.in/yaml/v3"

// ConversionStatus indicates the outcome of converting one document.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionPartial ConversionStatus = "partial"
	ConversionFailed  ConversionStatus = "failed"
)

// Document is one HTML source handed to the conversion pipeline.
// Immutable once loaded.
type Document struct {
	// ID is a slug derived from the source filename (e.g. "release-notes").
	ID string `json:"id" yaml:"id"`

	// Path is the local filesystem path the HTML was read from. Empty for
	// content supplied directly (e.g. stdin).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// HTML is the raw document content.
	HTML string `json:"-" yaml:"-"`
}

// Metadata is an ordered name-to-value mapping extracted from a document
// head. Setting an existing name replaces the value but keeps the original
// position.
type Metadata struct {
	keys   []string
	values map[string]string
}

// NewMetadata returns an empty metadata map.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

// Set records value under name, preserving first-insertion order.
func (m *Metadata) Set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value stored under name.
func (m *Metadata) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the field names in insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalYAML emits the entries as a mapping in insertion order with
// double-quoted values, so sidecar files match the front matter exactly.
func (m *Metadata) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.values[k], Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

// StopReason records why a conversion run stopped consuming windows.
type StopReason string

const (
	// StopDone means every planned window was converted.
	StopDone StopReason = "done"
	// StopSentinel means a window's output contained the termination
	// sentinel; the output was kept and remaining windows were dropped.
	StopSentinel StopReason = "sentinel"
	// StopStarved means the model returned empty output for a window;
	// nothing was recorded for it and remaining windows were dropped.
	StopStarved StopReason = "starved"
	// StopFailed means the conversion API call failed for a window.
	StopFailed StopReason = "failed"
	// StopEmpty means the document body had no convertible content.
	StopEmpty StopReason = "empty"
)

// Result is the outcome of one conversion run.
type Result struct {
	// Markdown is the aggregated output, header included when metadata is
	// present. On an early stop it holds whatever the completed windows
	// produced.
	Markdown string

	// Metadata is the extracted header metadata. Empty (never nil) when the
	// document had none or the run short-circuited on an empty body.
	Metadata *Metadata

	// WindowsPlanned and WindowsConverted report how much of the document
	// the run covered.
	WindowsPlanned   int
	WindowsConverted int

	// Stop records why the run ended. Err carries the API failure when
	// Stop is StopFailed.
	Stop StopReason
	Err  error
}

// Truncated reports whether the run stopped before converting every planned
// window.
func (r Result) Truncated() bool {
	return r.WindowsConverted < r.WindowsPlanned
}
