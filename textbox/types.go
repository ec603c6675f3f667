package textbox

import (
	"fmt"
	"strings"

	"github.com/ByLCY/linebox/layout"
)

// 该文件定义排版结果，供调试 JSON 与测试共用。

// VerticalAlignment 决定文本在文本框高度内的位置。
type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

func (v VerticalAlignment) String() string {
	switch v {
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	default:
		return "top"
	}
}

// ParseVerticalAlignment 解析垂直对齐方式，空字符串视为 top。
func ParseVerticalAlignment(value string) (VerticalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "top":
		return AlignTop, nil
	case "middle", "center":
		return AlignMiddle, nil
	case "bottom":
		return AlignBottom, nil
	}
	return AlignTop, fmt.Errorf("未知的垂直对齐方式: %q", value)
}

// offset returns how far below the top of the box the text starts. Text
// taller than the box always starts at the top.
func (v VerticalAlignment) offset(boxHeight, textHeight int) int {
	free := boxHeight - textHeight
	if free <= 0 {
		return 0
	}
	switch v {
	case AlignMiddle:
		return free / 2
	case AlignBottom:
		return free
	default:
		return 0
	}
}

// Result 保存一次只测量不绘制的排版结果。
type Result struct {
	Width     int                        `json:"width"`
	Height    int                        `json:"height"`
	Alignment layout.HorizontalAlignment `json:"alignment"`
	Lines     []Line                     `json:"lines"`
}

// Line 表示排版后的一行：起始 Y、可见内容的起点与宽度、结束原因及全部事件。
type Line struct {
	Y      int                `json:"y"`
	Start  int                `json:"start"`
	Width  int                `json:"width"`
	End    layout.LineEndType `json:"end"`
	Events []layout.Event     `json:"events"`
}

// Text returns the printed text of the line with whitespace events rendered
// as spaces.
func (l Line) Text() string {
	var sb strings.Builder
	for _, ev := range l.Events {
		switch ev.Kind {
		case layout.EventPrinted:
			sb.WriteString(ev.Text)
		case layout.EventWhitespace:
			sb.WriteString(strings.Repeat(" ", ev.Count))
		}
	}
	return sb.String()
}
