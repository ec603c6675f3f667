package layout

import "github.com/ByLCY/linebox/ansi"

// 该文件定义行布局事件，供测试断言、调试 JSON 与文本框的行测量共用。

// EventKind 标识事件类型。
type EventKind int

const (
	EventWhitespace EventKind = iota
	EventPrinted
	EventMoveCursor
	EventStyleChange
)

func (k EventKind) String() string {
	switch k {
	case EventWhitespace:
		return "whitespace"
	case EventPrinted:
		return "printed"
	case EventMoveCursor:
		return "move"
	default:
		return "style"
	}
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event 是一次 ElementHandler 调用的记录。MoveCursor 的位移保存在 Width 中。
type Event struct {
	Kind  EventKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Count int       `json:"count,omitempty"`
	Width int       `json:"width"`
	Sgr   *ansi.Sgr `json:"sgr,omitempty"`
}

// Space 构造空白事件。
func Space(count, width int) Event { return Event{Kind: EventWhitespace, Count: count, Width: width} }

// Printed 构造文字事件。
func Printed(text string, width int) Event { return Event{Kind: EventPrinted, Text: text, Width: width} }

// Move 构造光标移动事件。
func Move(delta int) Event { return Event{Kind: EventMoveCursor, Width: delta} }

// Style 构造样式变化事件。
func Style(sgr ansi.Sgr) Event { return Event{Kind: EventStyleChange, Sgr: &sgr} }

// Recorder is an ElementHandler that records every event.
type Recorder struct {
	measure func(string) int
	Events  []Event
}

// NewRecorder returns a recorder measuring text with measure.
func NewRecorder(measure func(string) int) *Recorder { return &Recorder{measure: measure} }

func (r *Recorder) Measure(text string) int { return r.measure(text) }

func (r *Recorder) Whitespace(count, width int) error {
	r.Events = append(r.Events, Space(count, width))
	return nil
}

func (r *Recorder) PrintedCharacters(text string, width int) error {
	r.Events = append(r.Events, Printed(text, width))
	return nil
}

func (r *Recorder) MoveCursor(delta int) error {
	r.Events = append(r.Events, Move(delta))
	return nil
}

func (r *Recorder) StyleChange(sgr ansi.Sgr) error {
	r.Events = append(r.Events, Style(sgr))
	return nil
}

// Metrics 汇总一行的已绘制范围。
type Metrics struct {
	// Start/End 是第一个与最后一个可见字符相对行首的位置。
	Start int `json:"start"`
	End   int `json:"end"`
	// Spaces 是可见内容之间的空白个数与总宽度，用于两端对齐。
	// 制表符与光标前移不计入。
	Spaces     int  `json:"spaces"`
	SpaceWidth int  `json:"spaceWidth"`
	Printed    bool `json:"printed"`
}

// ContentWidth returns the width between the first and last printed
// character.
func (m Metrics) ContentWidth() int { return m.End - m.Start }

// MeasureEvents replays events and returns the extent of printed content.
// Whitespace after the last printed text does not count.
func MeasureEvents(events []Event) Metrics {
	var m Metrics
	pos, pendingCount, pendingWidth := 0, 0, 0
	for _, ev := range events {
		switch ev.Kind {
		case EventWhitespace:
			pos += ev.Width
			if ev.Count > 0 {
				pendingCount += ev.Count
				pendingWidth += ev.Width
			}
		case EventPrinted:
			if !m.Printed {
				m.Start = pos
				m.Printed = true
				pendingCount, pendingWidth = 0, 0
			}
			pos += ev.Width
			m.End = pos
			m.Spaces += pendingCount
			m.SpaceWidth += pendingWidth
			pendingCount, pendingWidth = 0, 0
		case EventMoveCursor:
			pos += ev.Width
		}
	}
	return m
}
