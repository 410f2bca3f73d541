// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk plans overlapping token windows over a document body.
// Implements: prd001-chunking (R2, R3);
//
//	docs/ARCHITECTURE § Chunk Planning.
package chunk

import "fmt"

// Window is one contiguous slice of the body token sequence submitted as a
// single conversion request. Start and End bound the non-overlap range; for
// Index > 0 Tokens additionally carries the overlap prefix preceding Start,
// re-sent for context continuity only.
type Window struct {
	Index  int
	Start  int
	End    int
	Tokens []int
}

// Plan computes the ordered window sequence covering tokens. Windows are
// emitted in strictly increasing Start order and their [Start, End) ranges
// tile [0, len(tokens)) exactly. An empty token sequence plans zero windows.
func Plan(tokens []int, maxWindowTokens, overlapTokens int) ([]Window, error) {
	if maxWindowTokens <= 0 {
		return nil, fmt.Errorf("max window tokens must be positive, got %d", maxWindowTokens)
	}
	if overlapTokens < 0 || overlapTokens >= maxWindowTokens {
		return nil, fmt.Errorf("overlap tokens (%d) must be in [0, max window tokens %d)", overlapTokens, maxWindowTokens)
	}

	total := len(tokens)
	if total == 0 {
		return nil, nil
	}

	windows := make([]Window, 0, (total+maxWindowTokens-1)/maxWindowTokens)
	for start, index := 0, 0; start < total; start, index = start+maxWindowTokens, index+1 {
		end := start + maxWindowTokens
		if end > total {
			end = total
		}
		lo := start
		if index > 0 {
			lo = start - overlapTokens
		}
		windows = append(windows, Window{
			Index:  index,
			Start:  start,
			End:    end,
			Tokens: tokens[lo:end],
		})
	}
	return windows, nil
}

// Single plans one window spanning the whole token sequence, used when the
// document fits the model limit and splitting is bypassed.
func Single(tokens []int) []Window {
	if len(tokens) == 0 {
		return nil
	}
	return []Window{{Index: 0, Start: 0, End: len(tokens), Tokens: tokens}}
}
