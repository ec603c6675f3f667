package layout

import "github.com/ByLCY/linebox/ansi"

// LineEndType tells why a line ended.
type LineEndType int

const (
	// LineBreak: the line is full and the text continues on the next line.
	LineBreak LineEndType = iota
	// NewLine: a hard line break.
	NewLine
	// CarriageReturn: the next line is drawn over the current one.
	CarriageReturn
	EndOfText
)

func (e LineEndType) String() string {
	switch e {
	case NewLine:
		return "newline"
	case CarriageReturn:
		return "carriage-return"
	case EndOfText:
		return "end-of-text"
	default:
		return "line-break"
	}
}

func (e LineEndType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// ElementHandler receives the layout of a line as a stream of events. The
// handler measures text; the line parser decides where it goes.
type ElementHandler interface {
	Measure(text string) int
	// Whitespace covers width pixels with count spaces. Count is 0 for
	// cursor-forward escapes.
	Whitespace(count, width int) error
	PrintedCharacters(text string, width int) error
	MoveCursor(delta int) error
	StyleChange(sgr ansi.Sgr) error
}

// NopHandler implements every event of ElementHandler as a no-op. Embed it
// and provide Measure.
type NopHandler struct{}

func (NopHandler) Whitespace(int, int) error { return nil }

func (NopHandler) PrintedCharacters(string, int) error { return nil }

func (NopHandler) MoveCursor(int) error { return nil }

func (NopHandler) StyleChange(ansi.Sgr) error { return nil }
