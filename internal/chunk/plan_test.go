// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"testing"
)

// seq returns the token sequence 0, 1, ..., n-1 so slice positions are
// visible in failures.
func seq(n int) []int {
	tokens := make([]int, n)
	for i := range tokens {
		tokens[i] = i
	}
	return tokens
}

func TestPlanWorkedExample(t *testing.T) {
	// 2350 body tokens with 1000-token windows and 100-token overlap.
	windows, err := Plan(seq(2350), 1000, 100)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	want := []struct{ start, end, sliceLo int }{
		{0, 1000, 0},
		{1000, 2000, 900},
		{2000, 2350, 1900},
	}
	if len(windows) != len(want) {
		t.Fatalf("planned %d windows, want %d", len(windows), len(want))
	}
	for i, w := range windows {
		if w.Index != i {
			t.Errorf("window %d: Index = %d", i, w.Index)
		}
		if w.Start != want[i].start || w.End != want[i].end {
			t.Errorf("window %d: range [%d,%d), want [%d,%d)", i, w.Start, w.End, want[i].start, want[i].end)
		}
		if w.Tokens[0] != want[i].sliceLo {
			t.Errorf("window %d: slice starts at token %d, want %d", i, w.Tokens[0], want[i].sliceLo)
		}
		if w.Tokens[len(w.Tokens)-1] != want[i].end-1 {
			t.Errorf("window %d: slice ends at token %d, want %d", i, w.Tokens[len(w.Tokens)-1], want[i].end-1)
		}
	}
}

func TestPlanCoverage(t *testing.T) {
	// Non-overlap ranges must tile [0, total) with no gaps and no
	// double-counted tokens, for totals that do and do not divide evenly.
	for _, total := range []int{1, 99, 100, 101, 250, 1000, 2350} {
		windows, err := Plan(seq(total), 100, 10)
		if err != nil {
			t.Fatalf("Plan(total=%d): %v", total, err)
		}
		next := 0
		for _, w := range windows {
			if w.Start != next {
				t.Errorf("total=%d window %d: Start = %d, want %d", total, w.Index, w.Start, next)
			}
			if w.End <= w.Start {
				t.Errorf("total=%d window %d: empty range [%d,%d)", total, w.Index, w.Start, w.End)
			}
			next = w.End
		}
		if next != total {
			t.Errorf("total=%d: coverage ends at %d", total, next)
		}
	}
}

func TestPlanOverlapCorrectness(t *testing.T) {
	tokens := seq(2350)
	windows, err := Plan(tokens, 1000, 100)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	for i := 1; i < len(windows); i++ {
		w := windows[i]
		if len(w.Tokens) < 100 {
			t.Fatalf("window %d shorter than overlap", i)
		}
		for j := 0; j < 100; j++ {
			if w.Tokens[j] != tokens[w.Start-100+j] {
				t.Fatalf("window %d overlap token %d = %d, want %d", i, j, w.Tokens[j], tokens[w.Start-100+j])
			}
		}
		// The overlap prefix equals the tail of the previous window's
		// non-overlap range.
		prev := windows[i-1]
		if w.Tokens[0] != tokens[prev.End-100] {
			t.Errorf("window %d overlap does not align with window %d tail", i, i-1)
		}
	}
}

func TestPlanRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name            string
		maxWindow, over int
	}{
		{"zero window", 0, 0},
		{"negative window", -5, 0},
		{"overlap equals window", 100, 100},
		{"overlap exceeds window", 100, 150},
		{"negative overlap", 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Plan(seq(500), tt.maxWindow, tt.over); err == nil {
				t.Errorf("Plan(%d, %d) should fail", tt.maxWindow, tt.over)
			}
		})
	}
}

func TestPlanEmptyBody(t *testing.T) {
	windows, err := Plan(nil, 1000, 100)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("empty body planned %d windows", len(windows))
	}
}

func TestSingle(t *testing.T) {
	tokens := seq(42)
	windows := Single(tokens)
	if len(windows) != 1 {
		t.Fatalf("Single planned %d windows", len(windows))
	}
	w := windows[0]
	if w.Index != 0 || w.Start != 0 || w.End != 42 || len(w.Tokens) != 42 {
		t.Errorf("Single window = %+v", w)
	}
	if Single(nil) != nil {
		t.Error("Single(nil) should plan no windows")
	}
}
