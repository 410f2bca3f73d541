// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package token

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	tests := []string{
		"",
		"hello world",
		"<h1>Release Notes</h1>\n<p>Fixed a bug in the parser.</p>",
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50),
	}

	for _, text := range tests {
		got := codec.Decode(codec.Encode(text))
		if got != text {
			t.Errorf("round trip changed text: %q -> %q", text, got)
		}
	}
}

func TestCountMatchesEncode(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	text := "<p>Token counting drives the split decision.</p>"
	if got, want := codec.Count(text), len(codec.Encode(text)); got != want {
		t.Errorf("Count = %d, len(Encode) = %d", got, want)
	}
	if codec.Count("") != 0 {
		t.Errorf("Count of empty string should be 0, got %d", codec.Count(""))
	}
}

func TestTail(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	text := strings.Repeat("one two three four five six seven eight nine ten ", 10)
	tokens := codec.Encode(text)

	tail := codec.Tail(text, 5)
	if got, want := tail, codec.Decode(tokens[len(tokens)-5:]); got != want {
		t.Errorf("Tail(5) = %q, want %q", got, want)
	}

	if got := codec.Tail(text, len(tokens)+10); got != text {
		t.Errorf("Tail larger than text should return text unchanged")
	}
	if got := codec.Tail(text, 0); got != "" {
		t.Errorf("Tail(0) = %q, want empty", got)
	}
}
