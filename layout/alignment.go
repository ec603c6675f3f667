package layout

import (
	"fmt"
	"strings"
)

// HorizontalAlignment 决定一行内容在行宽内的位置。
type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
	// AlignJustified stretches the spaces of every wrapped line so the line
	// fills the full width. Paragraph ends are left aligned.
	AlignJustified
)

func (a HorizontalAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justified"
	default:
		return "left"
	}
}

// MarshalText 让调试 JSON 输出可读名称。
func (a HorizontalAlignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseHorizontalAlignment 解析对齐方式，空字符串视为 left。
func ParseHorizontalAlignment(value string) (HorizontalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "left", "start":
		return AlignLeft, nil
	case "center", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	case "justify", "justified":
		return AlignJustified, nil
	}
	return AlignLeft, fmt.Errorf("未知的对齐方式: %q", value)
}

// rendersLeadingSpaces reports whether whitespace at the start of a line is
// drawn. Only left aligned text keeps its indentation.
func (a HorizontalAlignment) rendersLeadingSpaces() bool { return a == AlignLeft }

// rendersTrailingSpaces reports whether whitespace at the end of a line is
// drawn. No alignment does.
func (a HorizontalAlignment) rendersTrailingSpaces() bool { return false }
