// Package ansi recognizes inline control sequences (CSI escapes) embedded in
// text and decodes the subset the layout engine understands: Select Graphic
// Rendition and relative horizontal cursor moves.
package ansi

import (
	"errors"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Escape is the byte that starts every control sequence.
const Escape = '\x1b'

// maxSequenceLen bounds the scan for a final byte so that a stray ESC in a
// long text never triggers a scan of the whole buffer.
const maxSequenceLen = 64

// ErrMalformed is returned by Parse when the input does not start with a
// complete control sequence.
var ErrMalformed = errors.New("ansi: malformed control sequence")

var (
	csiLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Introducer", Pattern: `\x1b\[`},
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "Sep", Pattern: `;`},
		{Name: "Final", Pattern: `[@-~]`},
	})

	csiParser = participle.MustBuild[csi](participle.Lexer(csiLexer))
)

// csi is the grammar of a control sequence with numeric parameters.
type csi struct {
	Parts []string `parser:"Introducer @(Int | Sep)*"`
	Final string   `parser:"@Final"`
}

// SequenceKind classifies a recognized control sequence.
type SequenceKind int

const (
	// Unsupported is a well-formed sequence with no layout meaning.
	Unsupported SequenceKind = iota
	SetGraphicsMode
	CursorForward
	CursorBackward
)

func (k SequenceKind) String() string {
	switch k {
	case SetGraphicsMode:
		return "sgr"
	case CursorForward:
		return "cursor-forward"
	case CursorBackward:
		return "cursor-backward"
	default:
		return "unsupported"
	}
}

// Sequence is a parsed control sequence. Omitted parameters are stored as 0.
type Sequence struct {
	Kind   SequenceKind `json:"kind"`
	Params []int        `json:"params,omitempty"`
	Final  byte         `json:"final"`
}

// Count returns the repeat count of a cursor movement; an omitted or zero
// parameter means one.
func (s Sequence) Count() int {
	if len(s.Params) == 0 || s.Params[0] < 1 {
		return 1
	}
	return s.Params[0]
}

// Parse recognizes the control sequence at the start of text and returns it
// together with its length in bytes.
func Parse(text string) (Sequence, int, error) {
	n, ok := scan(text)
	if !ok {
		return Sequence{}, 0, ErrMalformed
	}
	raw := text[:n]
	final := raw[n-1]

	parsed, err := csiParser.ParseString("", raw)
	if err != nil {
		// private parameter bytes or intermediates: well-formed but not ours
		return Sequence{Kind: Unsupported, Final: final}, n, nil
	}

	seq := Sequence{Final: final, Params: decodeParams(parsed.Parts)}
	switch final {
	case 'm':
		seq.Kind = SetGraphicsMode
	case 'C':
		seq.Kind = CursorForward
	case 'D':
		seq.Kind = CursorBackward
	default:
		seq.Kind = Unsupported
	}
	return seq, n, nil
}

// scan finds the end of an ECMA-48 control sequence: ESC '[', parameter
// bytes 0x30-0x3F, intermediate bytes 0x20-0x2F, one final byte 0x40-0x7E.
func scan(text string) (int, bool) {
	if len(text) < 3 || text[0] != Escape || text[1] != '[' {
		return 0, false
	}
	i := 2
	for i < len(text) && i < maxSequenceLen && text[i] >= 0x30 && text[i] <= 0x3f {
		i++
	}
	for i < len(text) && i < maxSequenceLen && text[i] >= 0x20 && text[i] <= 0x2f {
		i++
	}
	if i >= len(text) || i >= maxSequenceLen {
		return 0, false
	}
	if c := text[i]; c < 0x40 || c > 0x7e {
		return 0, false
	}
	return i + 1, true
}

func decodeParams(parts []string) []int {
	params := make([]int, 0, len(parts)/2+1)
	current := 0
	for _, part := range parts {
		if part == ";" {
			params = append(params, current)
			current = 0
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			// out of range
			v = int(^uint32(0) >> 1)
		}
		current = v
	}
	return append(params, current)
}
