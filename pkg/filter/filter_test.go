package filter

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

type warnings []string

func (w *warnings) Warn(msg string) { *w = append(*w, msg) }

func quiet() *log.Logger { return log.New(io.Discard) }

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"5", 5},
		{"  42", 42},
		{"\t-7", -7},
		{"+3", 3},
		{"12abc", 12},
		{"3.9", 3},
		{"abc", 0},
		{"-", 0},
		{"- 4", 0},
		{"007", 7},
		{"1e3", 1},
	}
	for _, tt := range tests {
		if got := ParseInt(tt.in); got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseIntOverflow(t *testing.T) {
	if got := ParseInt("99999999999999999999999"); got <= 0 {
		t.Errorf("ParseInt(huge) = %d, want a large positive value", got)
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
		want     Bounds
		warned   bool
	}{
		{"ordered", "3", "5", Bounds{3, 5}, false},
		{"equal", "4", "4", Bounds{4, 4}, false},
		{"reversed", "5", "3", Bounds{0, 3}, true},
		{"both empty", "", "", Bounds{0, 0}, false},
		{"garbage min", "x", "10", Bounds{0, 10}, false},
		{"garbage max", "2", "x", Bounds{0, 0}, true},
		{"negative max", "0", "-2", Bounds{0, -2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w warnings
			c := New(Bounds{}, &w, quiet())
			got := c.Refresh(tt.min, tt.max)
			if got != tt.want {
				t.Errorf("Refresh(%q, %q) = %v, want %v", tt.min, tt.max, got, tt.want)
			}
			if c.Bounds() != got {
				t.Errorf("Bounds() = %v, want %v", c.Bounds(), got)
			}
			if tt.warned {
				if len(w) != 1 || w[0] != MinAboveMaxMessage {
					t.Errorf("warnings = %q, want one min-above-max warning", w)
				}
			} else if len(w) != 0 {
				t.Errorf("unexpected warnings %q", w)
			}
		})
	}
}

func TestRefreshOrderingRule(t *testing.T) {
	c := New(Bounds{}, nil, quiet())
	inputs := []string{"", "0", "-5", "5", "17", "abc", "  9", "100"}
	for _, lo := range inputs {
		for _, hi := range inputs {
			want := Bounds{Min: ParseInt(lo), Max: ParseInt(hi)}
			if want.Min > want.Max {
				want.Min = 0
			}
			if got := c.Refresh(lo, hi); got != want {
				t.Errorf("Refresh(%q, %q) = %v, want %v", lo, hi, got, want)
			}
		}
	}

	// A negative max keeps min above it.
	if got := c.Refresh("0", "-2"); got != (Bounds{Min: 0, Max: -2}) {
		t.Errorf("Refresh(\"0\", \"-2\") = %v, want {0 -2}", got)
	}
}

func TestNewKeepsInitialBounds(t *testing.T) {
	c := New(Bounds{Min: 1, Max: 9}, nil, nil)
	if got := c.Bounds(); got != (Bounds{1, 9}) {
		t.Errorf("Bounds() = %v, want [1, 9]", got)
	}
}

func TestWarnFunc(t *testing.T) {
	var got string
	c := New(Bounds{}, WarnFunc(func(msg string) { got = msg }), quiet())
	c.Refresh("9", "1")
	if got != MinAboveMaxMessage {
		t.Errorf("warning = %q", got)
	}
}
