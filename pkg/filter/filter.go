// Package filter validates the minimum and maximum bounds entered in the
// filter controls.
//
// Values are parsed leniently: a value that does not start with an integer
// counts as zero. When the minimum exceeds the maximum the minimum is reset
// to zero and the user is warned. The bounds are recorded but do not change
// which nodes are drawn.
package filter

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
)

// MinAboveMaxMessage is shown when the minimum exceeds the maximum.
const MinAboveMaxMessage = "The minimum filter cannot be greater than the maximum filter. Resetting min. to 0."

// Bounds is an inclusive integer range.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (b Bounds) String() string { return fmt.Sprintf("[%d, %d]", b.Min, b.Max) }

// Warner shows a blocking message to the user.
type Warner interface {
	Warn(msg string)
}

// WarnFunc adapts a function to Warner.
type WarnFunc func(msg string)

func (f WarnFunc) Warn(msg string) { f(msg) }

// Controls holds the last validated bounds.
type Controls struct {
	bounds Bounds
	warner Warner
	logger *log.Logger
}

// New returns controls with the given starting bounds. Starting bounds are
// not validated. A nil logger uses log.Default.
func New(initial Bounds, w Warner, logger *log.Logger) *Controls {
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("filter controls", "min", initial.Min, "max", initial.Max)
	return &Controls{bounds: initial, warner: w, logger: logger}
}

// Bounds returns the last validated bounds.
func (c *Controls) Bounds() Bounds { return c.bounds }

// Refresh parses both values, resets the minimum to zero when it exceeds the
// maximum, and stores the result.
func (c *Controls) Refresh(minValue, maxValue string) Bounds {
	lo, hi := ParseInt(minValue), ParseInt(maxValue)
	if lo > hi {
		c.logger.Warn("filter bounds out of order", "min", lo, "max", hi)
		if c.warner != nil {
			c.warner.Warn(MinAboveMaxMessage)
		}
	}
	c.bounds = Validate(lo, hi)
	c.logger.Debug("filter refreshed", "min", c.bounds.Min, "max", c.bounds.Max)
	return c.bounds
}

// Validate applies the ordering rule without side effects.
func Validate(lo, hi int) Bounds {
	if lo > hi {
		lo = 0
	}
	return Bounds{Min: lo, Max: hi}
}

// ParseInt reads a base-10 integer prefix the way browsers parse form
// fields: leading whitespace and one sign are skipped, digits are consumed
// until the first non-digit. No digits yields 0.
func ParseInt(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > (math.MaxInt-9)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
