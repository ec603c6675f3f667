package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for tab size and line height.

// TabSizeKind distinguishes tab stops given in spaces from absolute pixels.
type TabSizeKind int

const (
	TabSpaces TabSizeKind = iota
	TabPixels
)

// DefaultTabSpaces is used when a TabSize has no value.
const DefaultTabSpaces = 4

// TabSize is the distance between two tab stops.
type TabSize struct {
	Kind  TabSizeKind `json:"kind"`
	Value int         `json:"value"`
}

// Spaces returns a tab size of n space widths.
func Spaces(n int) TabSize { return TabSize{Kind: TabSpaces, Value: n} }

// Pixels returns a tab size of px pixels.
func Pixels(px int) TabSize { return TabSize{Kind: TabPixels, Value: px} }

// Resolve returns the tab stop distance in pixels.
func (t TabSize) Resolve(spaceWidth int) int {
	switch {
	case t.Value <= 0:
		return DefaultTabSpaces * spaceWidth
	case t.Kind == TabPixels:
		return t.Value
	default:
		return t.Value * spaceWidth
	}
}

func (t TabSize) String() string {
	if t.Kind == TabPixels {
		return fmt.Sprintf("%dpx", t.Value)
	}
	return fmt.Sprintf("%dsp", t.Value)
}

// ParseTabSize parses "4", "4sp" (spaces) or "24px" (pixels).
func ParseTabSize(value string) (TabSize, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Spaces(DefaultTabSpaces), nil
	}
	kind := TabSpaces
	num := v
	for _, suf := range []struct {
		s string
		k TabSizeKind
	}{{"px", TabPixels}, {"sp", TabSpaces}} {
		if strings.HasSuffix(v, suf.s) {
			kind = suf.k
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return TabSize{}, fmt.Errorf("无效的制表符宽度: %q", value)
	}
	return TabSize{Kind: kind, Value: n}, nil
}

// LineHeightKind distinguishes percentage-based vs absolute line height.
type LineHeightKind int

const (
	LineHeightPercent LineHeightKind = iota
	LineHeightPixels
)

// LineHeight is the vertical advance between two lines, either relative to
// the font's own line height or in pixels.
type LineHeight struct {
	Kind  LineHeightKind `json:"kind"`
	Value int            `json:"value"`
}

// Percent returns a line height of p percent of the font line height.
func Percent(p int) LineHeight { return LineHeight{Kind: LineHeightPercent, Value: p} }

// LinePixels returns an absolute line height.
func LinePixels(px int) LineHeight { return LineHeight{Kind: LineHeightPixels, Value: px} }

// Resolve computes the line advance for a font whose line height is base.
func (l LineHeight) Resolve(base int) int {
	switch {
	case l.Value <= 0:
		// fallback to the font's own line height if unspecified
		return base
	case l.Kind == LineHeightPixels:
		return l.Value
	default:
		return base * l.Value / 100
	}
}

func (l LineHeight) String() string {
	if l.Kind == LineHeightPixels {
		return fmt.Sprintf("%dpx", l.Value)
	}
	return fmt.Sprintf("%d%%", l.Value)
}

// ParseLineHeight parses "120%" or "14px". A bare number is a percentage.
func ParseLineHeight(value string) (LineHeight, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Percent(100), nil
	}
	kind := LineHeightPercent
	num := v
	switch {
	case strings.HasSuffix(v, "px"):
		kind = LineHeightPixels
		num = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "%"):
		num = strings.TrimSuffix(v, "%")
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n <= 0 {
		return LineHeight{}, fmt.Errorf("无效的行高: %q", value)
	}
	return LineHeight{Kind: kind, Value: n}, nil
}
