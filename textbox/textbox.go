// Package textbox lays out and draws a block of text inside a rectangle. Each
// line is measured first and then drawn, so that alignment and justification
// know the extent of the line before anything is emitted.
package textbox

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ByLCY/linebox/layout"
	"github.com/ByLCY/linebox/parser"
	"github.com/ByLCY/linebox/plugin"
	"github.com/ByLCY/linebox/style"
)

// ErrNoFont is returned when a text box is measured or drawn without a font.
var ErrNoFont = errors.New("textbox: 缺少字体")

// Font measures text. Widths and heights are in target pixels.
type Font interface {
	Measure(text string) int
	// LineHeight is the height of one line of glyphs.
	LineHeight() int
}

// Target is a surface a text box draws on. at is the top-left corner of the
// run of glyphs.
type Target interface {
	plugin.Target
	DrawText(text string, at image.Point, st style.Style) error
	FillRect(r image.Rectangle, c color.Color) error
}

// Style 配置文本框的排版参数。零值表示左对齐、顶部对齐、字体自身行高、4 个空格宽的制表符。
type Style struct {
	Alignment         layout.HorizontalAlignment
	VerticalAlignment VerticalAlignment
	LineHeight        layout.LineHeight
	TabSize           layout.TabSize
	// ParagraphSpacing is added after every hard line break.
	ParagraphSpacing int
	// EscapeSequences enables inline SGR and cursor movement sequences.
	EscapeSequences bool
	// Character is the initial character style; SGR reset returns to it.
	Character style.Style
}

// TextBox is a text positioned in a rectangle.
type TextBox struct {
	Text   string
	Bounds image.Rectangle
	Style  Style
	plugin *plugin.Wrapper
}

// New returns a text box without a plugin.
func New(text string, bounds image.Rectangle, st Style) *TextBox {
	return &TextBox{Text: text, Bounds: bounds, Style: st, plugin: plugin.NewWrapper(nil)}
}

// WithPlugin attaches p to the text box and returns the box.
func (tb *TextBox) WithPlugin(p plugin.Plugin) *TextBox {
	tb.plugin = plugin.NewWrapper(p)
	return tb
}

// Plugin returns the attached plugin, including any state it gathered while
// drawing.
func (tb *TextBox) Plugin() plugin.Plugin { return tb.plugin.Plugin() }

func (tb *TextBox) parser() parser.Parser {
	return parser.ParseWithOptions(tb.Text, parser.Options{EscapeSequences: tb.Style.EscapeSequences})
}

func (tb *TextBox) cursor(f Font, bounds image.Rectangle) layout.Cursor {
	return layout.NewCursor(bounds, f.LineHeight(), tb.Style.LineHeight, tb.Style.TabSize.Resolve(f.Measure(" ")))
}

// advance moves the cursor past a line that ended with end.
func (tb *TextBox) advance(c *layout.Cursor, end layout.LineEndType) {
	switch end {
	case layout.NewLine:
		c.NewLine()
		c.Skip(tb.Style.ParagraphSpacing)
	case layout.LineBreak:
		c.NewLine()
	}
}

// measureLine lays out the next line on copies of src and w in the measure
// phase and returns its events.
func (tb *TextBox) measureLine(f Font, src parser.Parser, w *plugin.Wrapper, lc layout.LineCursor) (layout.LineEndType, []layout.Event, error) {
	w = w.Clone()
	w.SetState(plugin.Measure)
	rec := layout.NewRecorder(f.Measure)
	end, err := layout.NewLineParser(&src, w, lc, layout.NewSpaceConfig(f.Measure(" ")), tb.Style.Alignment).Process(rec)
	if err != nil {
		return end, nil, err
	}
	return end, rec.Events, nil
}

// Layout lays out the whole text without drawing it. The box height is
// ignored: every line is reported.
func (tb *TextBox) Layout(f Font) (*Result, error) {
	if f == nil {
		return nil, ErrNoFont
	}
	res := &Result{Width: tb.Bounds.Dx(), Alignment: tb.Style.Alignment}
	if tb.Text == "" {
		return res, nil
	}

	src := tb.parser()
	w := tb.plugin.Clone()
	w.SetState(plugin.Measure)
	cursor := tb.cursor(f, image.Rect(0, 0, tb.Bounds.Dx(), math.MaxInt32))
	for {
		w.NewLine()
		lc := cursor.Line()
		rec := layout.NewRecorder(f.Measure)
		end, err := layout.NewLineParser(&src, w, lc, layout.NewSpaceConfig(f.Measure(" ")), tb.Style.Alignment).Process(rec)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行排版失败: %w", len(res.Lines)+1, err)
		}
		m := layout.MeasureEvents(rec.Events)
		res.Lines = append(res.Lines, Line{
			Y:      cursor.Y,
			Start:  m.Start,
			Width:  m.ContentWidth(),
			End:    end,
			Events: rec.Events,
		})
		if end == layout.EndOfText {
			res.Height = cursor.Y + cursor.LineHeight()
			return res, nil
		}
		tb.advance(&cursor, end)
	}
}

// MeasureHeight returns the height the text needs at the box width. Empty
// text has no height.
func (tb *TextBox) MeasureHeight(f Font) (int, error) {
	res, err := tb.Layout(f)
	if err != nil {
		return 0, err
	}
	return res.Height, nil
}

// Draw draws the text onto t. Lines that do not fit vertically are laid out
// but not drawn.
func (tb *TextBox) Draw(f Font, t Target) error {
	if f == nil {
		return ErrNoFont
	}
	height, err := tb.MeasureHeight(f)
	if err != nil {
		return err
	}

	cursor := tb.cursor(f, tb.Bounds)
	cursor.Y += tb.Style.VerticalAlignment.offset(tb.Bounds.Dy(), height)
	ctx := &plugin.RenderContext{Bounds: tb.Bounds, TextHeight: height, LineHeight: f.LineHeight(), Y: cursor.Y}
	tb.plugin.OnStartRender(ctx)
	cursor.Y = ctx.Y

	tb.plugin.SetState(plugin.Render)
	defer tb.plugin.SetState(plugin.Measure)

	current := tb.Style.Character
	src := tb.parser()
	for tb.Text != "" && cursor.Y < tb.Bounds.Max.Y {
		tb.plugin.NewLine()
		lc := cursor.Line()

		end, events, err := tb.measureLine(f, src, tb.plugin, lc)
		if err != nil {
			return fmt.Errorf("测量行失败: %w", err)
		}
		x, spaces := tb.place(f, layout.MeasureEvents(events), end)

		r := &lineRenderer{
			font:    f,
			target:  t,
			plugin:  tb.plugin,
			style:   &current,
			initial: tb.Style.Character,
			pen:     image.Pt(x, cursor.Y),
			height:  cursor.LineHeight(),
			visible: cursor.InDisplayArea(),
		}
		end, err = layout.NewLineParser(&src, tb.plugin, lc, spaces, tb.Style.Alignment).Process(r)
		if err != nil {
			return fmt.Errorf("绘制行失败: %w", err)
		}
		if end == layout.EndOfText {
			break
		}
		tb.advance(&cursor, end)
	}

	tb.plugin.OnRenderingFinished()
	return nil
}

// place returns the x origin of a line and the space configuration used to
// draw it.
func (tb *TextBox) place(f Font, m layout.Metrics, end layout.LineEndType) (int, layout.SpaceConfig) {
	spaceWidth := f.Measure(" ")
	left := tb.Bounds.Min.X
	free := tb.Bounds.Dx() - m.ContentWidth()

	switch tb.Style.Alignment {
	case layout.AlignCenter:
		return left + free/2 - m.Start, layout.NewSpaceConfig(spaceWidth)
	case layout.AlignRight:
		return left + free - m.Start, layout.NewSpaceConfig(spaceWidth)
	case layout.AlignJustified:
		// 行首空白不算缩进；段落最后一行不拉伸
		if end != layout.LineBreak || m.Spaces == 0 {
			return left - m.Start, layout.NewSpaceConfig(spaceWidth)
		}
		total := tb.Bounds.Dx() - m.ContentWidth() + m.SpaceWidth
		return left - m.Start, layout.NewJustifiedSpaceConfig(total/m.Spaces, total%m.Spaces)
	default:
		return left, layout.NewSpaceConfig(spaceWidth)
	}
}
