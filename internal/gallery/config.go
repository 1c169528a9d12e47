package gallery

import (
	"fmt"
	"strings"
)

// Mode selects how the gallery exposes its images. A controller runs exactly one mode.
type Mode int

const (
	// ModePaging shows fixed-size pages and swipes between them.
	ModePaging Mode = iota
	// ModeReveal shows a growing prefix of the list ("load more").
	ModeReveal
)

func (m Mode) String() string {
	switch m {
	case ModePaging:
		return "paging"
	case ModeReveal:
		return "reveal"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "paging" or "reveal" (case-insensitive). Empty means paging.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paging", "page", "pages":
		return ModePaging, nil
	case "reveal", "loadmore", "load-more":
		return ModeReveal, nil
	default:
		return ModePaging, fmt.Errorf("unknown gallery mode %q (expected paging or reveal)", s)
	}
}

const (
	DefaultPageSize           = 6
	DefaultInitialRevealCount = 3
	DefaultLoadMoreIncrement  = 3
	DefaultSwipeThresholdPx   = 50
	DefaultSwipeConfidence    = 10000
)

// Config tunes a Controller.
type Config struct {
	Mode               Mode
	PageSize           int
	InitialRevealCount int
	LoadMoreIncrement  int
	// SwipeThresholdPx is the touch distance after which a drag turns a page.
	SwipeThresholdPx float64
	// SwipeConfidence is the minimum swipe power (|offset| * velocity) for pointer drags.
	SwipeConfidence float64
}

// DefaultConfig returns the settings the studio site ships with.
func DefaultConfig() Config {
	return Config{
		Mode:               ModePaging,
		PageSize:           DefaultPageSize,
		InitialRevealCount: DefaultInitialRevealCount,
		LoadMoreIncrement:  DefaultLoadMoreIncrement,
		SwipeThresholdPx:   DefaultSwipeThresholdPx,
		SwipeConfidence:    DefaultSwipeConfidence,
	}
}

// Normalize replaces non-positive values with defaults.
func (c Config) Normalize() Config {
	if c.Mode != ModePaging && c.Mode != ModeReveal {
		c.Mode = ModePaging
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.InitialRevealCount <= 0 {
		c.InitialRevealCount = DefaultInitialRevealCount
	}
	if c.LoadMoreIncrement <= 0 {
		c.LoadMoreIncrement = DefaultLoadMoreIncrement
	}
	if c.SwipeThresholdPx <= 0 {
		c.SwipeThresholdPx = DefaultSwipeThresholdPx
	}
	if c.SwipeConfidence <= 0 {
		c.SwipeConfidence = DefaultSwipeConfidence
	}
	return c
}

// Classifier builds the gesture classifier for these thresholds.
func (c Config) Classifier() Classifier {
	n := c.Normalize()
	return Classifier{ThresholdPx: n.SwipeThresholdPx, Confidence: n.SwipeConfidence}
}
