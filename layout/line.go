package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/linebox/ansi"
	"github.com/ByLCY/linebox/parser"
	"github.com/ByLCY/linebox/plugin"
)

const nbsp = string(parser.NonBreakingSpace)

// LineParser lays out a single line. It pulls tokens through the plugin
// wrapper, decides how much of the text fits, and reports the result to an
// ElementHandler. Tokens that do not fit stay unconsumed for the next line.
type LineParser struct {
	src       *parser.Parser
	plugin    *plugin.Wrapper
	cursor    LineCursor
	spaces    SpaceConfig
	alignment HorizontalAlignment
	empty     bool
}

// NewLineParser returns a parser for one line starting at the current
// position of src.
func NewLineParser(src *parser.Parser, w *plugin.Wrapper, cursor LineCursor, spaces SpaceConfig, alignment HorizontalAlignment) *LineParser {
	return &LineParser{
		src:       src,
		plugin:    w,
		cursor:    cursor,
		spaces:    spaces,
		alignment: alignment,
		empty:     true,
	}
}

// Cursor returns the line cursor after the events emitted so far.
func (lp *LineParser) Cursor() LineCursor { return lp.cursor }

// Process lays out the line and reports why it ended. A handler error stops
// processing; the returned LineEndType is then meaningless.
func (lp *LineParser) Process(h ElementHandler) (LineEndType, error) {
	for {
		tok, ok := lp.plugin.PeekToken(lp.src)
		if !ok {
			lp.consume()
			return EndOfText, nil
		}

		var (
			full bool
			err  error
		)
		switch tok.Kind {
		case parser.NewLine:
			lp.consume()
			return NewLine, nil
		case parser.CarriageReturn:
			lp.consume()
			return CarriageReturn, nil
		case parser.Whitespace:
			full, err = lp.whitespace(h, tok)
		case parser.Tab:
			full, err = lp.tab(h, tok)
		case parser.Word:
			full, err = lp.word(h, tok)
		case parser.Break:
			full, err = lp.softBreak(h, tok)
		case parser.EscapeSequence:
			err = lp.escape(h, tok)
		default:
			lp.consume()
		}
		if err != nil {
			return EndOfText, err
		}
		if full {
			return LineBreak, nil
		}
	}
}

func (lp *LineParser) consume() { lp.plugin.ConsumePeeked(lp.src) }

func (lp *LineParser) leadingSpace() bool {
	return lp.empty && !lp.alignment.rendersLeadingSpaces()
}

// drawSpace decides whether a whitespace run of width pixels is visible.
func (lp *LineParser) drawSpace(h ElementHandler, width int) bool {
	return (lp.empty && lp.alignment.rendersLeadingSpaces()) ||
		lp.alignment.rendersTrailingSpaces() ||
		lp.nextWordFits(h, width)
}

func (lp *LineParser) whitespace(h ElementHandler, tok parser.Token) (bool, error) {
	if tok.Count == 0 {
		// zero width break opportunity
		lp.consume()
		return false, nil
	}
	if lp.leadingSpace() {
		// 非左对齐时行首空白只是一次移动，不占用行宽
		lp.consume()
		return false, h.MoveCursor(tok.Count * h.Measure(" "))
	}

	width := lp.spaces.Width(tok.Count)
	draw := lp.drawSpace(h, width)
	if lp.cursor.FitsInLine(width) {
		width = lp.spaces.Consume(tok.Count)
		lp.cursor.MoveCursor(width)
		lp.consume()
		return false, lp.emitSpace(h, tok, tok.Count, width, draw)
	}

	// 只放得下一部分：输出能放下的空格，吞掉换行处的一个空格，剩余部分留到下一行
	fit := lp.spaces.Fit(tok.Count, lp.cursor.Space())
	var err error
	if fit > 0 {
		w := lp.spaces.Consume(fit)
		lp.cursor.MoveCursor(w)
		err = lp.emitSpace(h, tok, fit, w, draw)
	}
	lp.plugin.ConsumePartial(lp.src, fit+1)
	return true, err
}

func (lp *LineParser) emitSpace(h ElementHandler, tok parser.Token, count, width int, draw bool) error {
	if !draw {
		return h.MoveCursor(width)
	}
	if _, ok := lp.plugin.RenderToken(tok); !ok {
		return h.MoveCursor(width)
	}
	return h.Whitespace(count, width)
}

func (lp *LineParser) tab(h ElementHandler, tok parser.Token) (bool, error) {
	width := lp.cursor.NextTabWidth()
	if lp.leadingSpace() {
		lp.consume()
		return false, h.MoveCursor(width)
	}

	draw := lp.drawSpace(h, width)
	moved, fits := lp.cursor.MoveCursor(width)
	lp.consume()
	if !fits {
		return true, h.MoveCursor(moved)
	}
	if draw {
		return false, h.Whitespace(0, moved)
	}
	return false, h.MoveCursor(moved)
}

func (lp *LineParser) word(h ElementHandler, tok parser.Token) (bool, error) {
	width := h.Measure(tok.Text)
	if lp.cursor.FitsInLine(width) {
		lp.cursor.MoveCursor(width)
		lp.empty = false
		lp.consume()
		return false, lp.printWord(h, tok)
	}
	if !lp.empty {
		return true, nil
	}

	// 单词比整行还宽：按字素簇拆出能放下的最长前缀
	prefix, chars := lp.fittingPrefix(h, tok.Text)
	if prefix == "" {
		if lp.cursor.Position() > 0 {
			// 光标已离开行首，留到下一行
			return true, nil
		}
		// not even one character fits; drop the word so that layout ends
		lp.consume()
		return true, nil
	}
	lp.cursor.MoveCursor(h.Measure(prefix))
	lp.empty = false
	lp.plugin.ConsumePartial(lp.src, chars)
	return true, lp.printWord(h, parser.WordToken(prefix))
}

// fittingPrefix returns the longest run of whole grapheme clusters of word
// that fits in the remaining space, and its length in characters.
func (lp *LineParser) fittingPrefix(h ElementHandler, word string) (string, int) {
	width, end, chars := 0, 0, 0
	rest, state := word, -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := h.Measure(cluster)
		if !lp.cursor.FitsInLine(width + w) {
			break
		}
		width += w
		end += len(cluster)
		chars += utf8.RuneCountInString(cluster)
	}
	return word[:end], chars
}

// printWord emits a word. Non-breaking spaces inside it are emitted as
// whitespace so that backgrounds and justification treat them as spaces.
func (lp *LineParser) printWord(h ElementHandler, tok parser.Token) error {
	out, ok := lp.plugin.RenderToken(tok)
	if !ok {
		return h.MoveCursor(h.Measure(tok.Text))
	}
	text := out.Text
	for {
		i := strings.Index(text, nbsp)
		if i < 0 {
			break
		}
		if i > 0 {
			if err := h.PrintedCharacters(text[:i], h.Measure(text[:i])); err != nil {
				return err
			}
		}
		if err := h.Whitespace(1, lp.spaces.Consume(1)); err != nil {
			return err
		}
		text = text[i+len(nbsp):]
	}
	if text == "" {
		return nil
	}
	return h.PrintedCharacters(text, h.Measure(text))
}

// softBreak handles a soft hyphen. The hyphen is only drawn when the line is
// broken at it.
func (lp *LineParser) softBreak(h ElementHandler, tok parser.Token) (bool, error) {
	next, found := lp.nextWordWidth(h)
	if !found || (!lp.empty && lp.cursor.FitsInLine(next)) {
		lp.consume()
		return false, nil
	}

	glyph := h.Measure(tok.Text)
	if lp.cursor.FitsInLine(glyph) {
		lp.cursor.MoveCursor(glyph)
		lp.consume()
		if err := h.PrintedCharacters(tok.Text, glyph); err != nil {
			return true, err
		}
	} else if lp.empty {
		lp.consume()
	}
	return !lp.empty, nil
}

// nextWordWidth measures the word following the peeked token, up to and
// including the next soft hyphen glyph. Style changes do not end a word.
func (lp *LineParser) nextWordWidth(h ElementHandler) (int, bool) {
	la := lp.plugin.Lookahead(lp.src)
	width, found := 0, false
	for {
		tok, ok := la.Next()
		if !ok {
			return width, found
		}
		switch tok.Kind {
		case parser.Word:
			width += h.Measure(tok.Text)
			found = true
		case parser.Break:
			return width + h.Measure(tok.Text), true
		case parser.EscapeSequence:
		default:
			return width, found
		}
	}
}

// nextWordFits reports whether a whitespace of width pixels and the word
// after it both fit on the current line.
func (lp *LineParser) nextWordFits(h ElementHandler, width int) bool {
	cursor := lp.cursor
	spaces := lp.spaces
	if _, ok := cursor.MoveCursor(width); !ok {
		return false
	}
	la := lp.plugin.Lookahead(lp.src)
	for {
		tok, ok := la.Next()
		if !ok {
			return false
		}
		var w int
		switch tok.Kind {
		case parser.Word, parser.Break:
			return cursor.FitsInLine(h.Measure(tok.Text))
		case parser.Whitespace:
			w = spaces.Consume(tok.Count)
		case parser.Tab:
			w = cursor.NextTabWidth()
		case parser.EscapeSequence:
			switch tok.Sequence.Kind {
			case ansi.CursorForward:
				w = tok.Sequence.Count() * h.Measure(" ")
			case ansi.CursorBackward:
				w = -tok.Sequence.Count() * h.Measure(" ")
			default:
				continue
			}
		default:
			return false
		}
		if _, ok := cursor.MoveCursor(w); !ok {
			return false
		}
	}
}

func (lp *LineParser) escape(h ElementHandler, tok parser.Token) error {
	lp.consume()
	seq := tok.Sequence
	switch seq.Kind {
	case ansi.SetGraphicsMode:
		for _, sgr := range ansi.ParseSgr(seq.Params) {
			if err := h.StyleChange(sgr); err != nil {
				return err
			}
		}
	case ansi.CursorForward:
		moved, _ := lp.cursor.MoveCursor(seq.Count() * h.Measure(" "))
		return h.Whitespace(0, moved)
	case ansi.CursorBackward:
		moved, _ := lp.cursor.MoveCursor(-seq.Count() * h.Measure(" "))
		if moved == 0 {
			return nil
		}
		// 先回退，再用背景色覆盖回退的区域，最后回到回退后的位置
		if err := h.MoveCursor(moved); err != nil {
			return err
		}
		if err := h.Whitespace(0, -moved); err != nil {
			return err
		}
		return h.MoveCursor(moved)
	}
	return nil
}
