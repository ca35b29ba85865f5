package segment

import (
	"errors"
	"fmt"
)

// Strategy selects how overlong sentences are cut.
type Strategy string

const (
	// StrategyAuto prefers internal punctuation, then word boundaries, then
	// a computed character offset.
	StrategyAuto Strategy = "auto"
	// StrategyFallback only ever cuts at a computed character offset.
	StrategyFallback Strategy = "fallback"
)

const (
	DefaultMaxLen = 15
	DefaultMinLen = 5
)

// ErrInvalidConfig is returned when size thresholds cannot describe any
// valid segmentation.
var ErrInvalidConfig = errors.New("invalid segmenter config")

// Config holds the ideographic size thresholds of a segmenter.
type Config struct {
	MaxLen   int      `json:"max_len" yaml:"max_len"`
	MinLen   int      `json:"min_len" yaml:"min_len"`
	Strategy Strategy `json:"strategy,omitempty" yaml:"strategy"`
}

// DefaultConfig returns max 15, min 5 with the auto strategy.
func DefaultConfig() Config {
	return Config{MaxLen: DefaultMaxLen, MinLen: DefaultMinLen, Strategy: StrategyAuto}
}

// Validate rejects thresholds that would make the recursion undefined.
func (c Config) Validate() error {
	switch {
	case c.MaxLen < 1:
		return fmt.Errorf("%w: max_len must be at least 1, got %d", ErrInvalidConfig, c.MaxLen)
	case c.MinLen < 0:
		return fmt.Errorf("%w: min_len must not be negative, got %d", ErrInvalidConfig, c.MinLen)
	case c.MinLen > c.MaxLen:
		return fmt.Errorf("%w: min_len %d exceeds max_len %d", ErrInvalidConfig, c.MinLen, c.MaxLen)
	}
	switch c.Strategy {
	case "", StrategyAuto, StrategyFallback:
		return nil
	default:
		return fmt.Errorf("%w: unknown strategy %q (want auto|fallback)", ErrInvalidConfig, c.Strategy)
	}
}

// Bounds carries per-call thresholds. A nil field keeps the configured value,
// so an explicit zero min is distinct from an omitted one.
type Bounds struct {
	MaxLen *int `json:"max_len,omitempty"`
	MinLen *int `json:"min_len,omitempty"`
}

// IsZero reports whether b overrides nothing.
func (b Bounds) IsZero() bool { return b.MaxLen == nil && b.MinLen == nil }

// Apply returns c with b laid over it. When only max is given and drops below
// the configured min, min becomes half of max so overlong sentences stay
// splittable.
func (b Bounds) Apply(c Config) Config {
	if b.MaxLen != nil {
		c.MaxLen = *b.MaxLen
		if b.MinLen == nil && c.MinLen > c.MaxLen {
			c.MinLen = max(c.MaxLen/2, 0)
		}
	}
	if b.MinLen != nil {
		c.MinLen = *b.MinLen
	}
	return c
}

// target returns the preferred ideographic length of the first piece when
// cutting a sentence of total ideographs. A slight overflow aims just under
// max so the remainder keeps a usable size; long sentences take a full piece.
func (c Config) target(total int) int {
	t := c.MaxLen
	switch {
	case total <= c.MaxLen+5:
		t = c.MaxLen - 1
	case total <= c.MaxLen+10:
		t = c.MaxLen - 3
	}
	if t < 1 {
		t = 1
	}
	return t
}

// window returns the inclusive range of first-piece lengths that keep both
// pieces at or above the floor and the first piece within max. ok is false
// when no such cut exists.
func (c Config) window(total int) (lo, hi int, ok bool) {
	lo = c.MinLen
	if lo < 1 {
		lo = 1
	}
	hi = total - lo
	if hi > c.MaxLen {
		hi = c.MaxLen
	}
	return lo, hi, lo <= hi
}
