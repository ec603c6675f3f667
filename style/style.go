// Package style holds the character style that inline SGR sequences mutate
// while a text box is drawn.
package style

import (
	"image/color"

	"github.com/ByLCY/linebox/ansi"
)

// Style 描述一段文字的绘制属性。nil 颜色表示由绘制目标决定（前景）或不填充（背景）。
type Style struct {
	TextColor       color.Color `json:"-"`
	BackgroundColor color.Color `json:"-"`
	Underline       bool        `json:"underline,omitempty"`
	Strikethrough   bool        `json:"strikethrough,omitempty"`
}

// Apply returns s with sgr applied. Reset and the default-color codes fall
// back to initial, the style the text box started with.
func (s Style) Apply(sgr ansi.Sgr, initial Style) Style {
	switch sgr.Kind {
	case ansi.SgrReset:
		return initial
	case ansi.SgrUnderline:
		s.Underline = true
	case ansi.SgrUnderlineOff:
		s.Underline = false
	case ansi.SgrCrossedOut:
		s.Strikethrough = true
	case ansi.SgrNotCrossedOut:
		s.Strikethrough = false
	case ansi.SgrTextColor:
		s.TextColor = sgr.Color
	case ansi.SgrDefaultTextColor:
		s.TextColor = initial.TextColor
	case ansi.SgrBackgroundColor:
		s.BackgroundColor = sgr.Color
	case ansi.SgrDefaultBackgroundColor:
		s.BackgroundColor = initial.BackgroundColor
	}
	return s
}

// TextColorOr returns the text color, or fallback when none is set.
func (s Style) TextColorOr(fallback color.Color) color.Color {
	if s.TextColor == nil {
		return fallback
	}
	return s.TextColor
}
