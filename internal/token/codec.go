// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package token wraps the BPE tokenizer used as the unit of document size
// measurement and splitting. Implements: prd001-chunking (R1);
//
//	docs/ARCHITECTURE § Tokenization.
package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName pins the BPE vocabulary. Token sequences are stable only
// within one encoding; changing it invalidates nothing persisted because
// tokens never leave a single run.
const encodingName = "cl100k_base"

// Codec encodes text to BPE token sequences and back. A Codec is immutable
// and safe for concurrent use; construct one per process and inject it.
type Codec struct {
	encoding *tiktoken.Tiktoken
}

// NewCodec loads the cl100k_base encoding.
func NewCodec() (*Codec, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &Codec{encoding: encoding}, nil
}

// Encode converts text to its token sequence.
func (c *Codec) Encode(text string) []int {
	return c.encoding.Encode(text, nil, nil)
}

// Decode converts a token sequence back to text. Decode(Encode(s)) == s for
// any s under a fixed encoding.
func (c *Codec) Decode(tokens []int) string {
	return c.encoding.Decode(tokens)
}

// Count returns the token count of text.
func (c *Codec) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// Tail returns the text of the last n tokens of text. It returns text
// unchanged when it is already within n tokens, and "" when n <= 0.
func (c *Codec) Tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	tokens := c.encoding.Encode(text, nil, nil)
	if len(tokens) <= n {
		return text
	}
	return c.encoding.Decode(tokens[len(tokens)-n:])
}
