package textbox

import (
	"image"
	"image/color"

	"github.com/ByLCY/linebox/ansi"
	"github.com/ByLCY/linebox/plugin"
	"github.com/ByLCY/linebox/style"
)

// lineRenderer draws the events of one line. Invisible lines only track
// style changes so that the following lines start with the right style.
type lineRenderer struct {
	font    Font
	target  Target
	plugin  *plugin.Wrapper
	style   *style.Style
	initial style.Style
	pen     image.Point
	height  int
	visible bool
}

func (r *lineRenderer) Measure(text string) int { return r.font.Measure(text) }

// span advances the pen by width and returns the covered rectangle.
func (r *lineRenderer) span(width int) image.Rectangle {
	rect := image.Rect(r.pen.X, r.pen.Y, r.pen.X+width, r.pen.Y+r.height)
	r.pen.X += width
	return rect
}

func (r *lineRenderer) Whitespace(count, width int) error {
	rect := r.span(width)
	if !r.visible || width <= 0 {
		return nil
	}
	if err := r.decorate(rect); err != nil {
		return err
	}
	return r.plugin.PostRender(r.target, *r.style, plugin.WhitespaceText(count), rect)
}

func (r *lineRenderer) PrintedCharacters(text string, width int) error {
	rect := r.span(width)
	if !r.visible {
		return nil
	}
	if bg := r.style.BackgroundColor; bg != nil {
		if err := r.target.FillRect(rect, bg); err != nil {
			return err
		}
	}
	if err := r.target.DrawText(text, rect.Min, *r.style); err != nil {
		return err
	}
	if err := r.lines(rect); err != nil {
		return err
	}
	return r.plugin.PostRender(r.target, *r.style, text, rect)
}

func (r *lineRenderer) MoveCursor(delta int) error {
	r.pen.X += delta
	return nil
}

func (r *lineRenderer) StyleChange(sgr ansi.Sgr) error {
	*r.style = r.style.Apply(sgr, r.initial)
	return nil
}

// decorate paints the background and text decorations of a whitespace run.
func (r *lineRenderer) decorate(rect image.Rectangle) error {
	if bg := r.style.BackgroundColor; bg != nil {
		if err := r.target.FillRect(rect, bg); err != nil {
			return err
		}
	}
	return r.lines(rect)
}

// lines draws underline and strikethrough as one pixel rules.
func (r *lineRenderer) lines(rect image.Rectangle) error {
	if !r.style.Underline && !r.style.Strikethrough {
		return nil
	}
	c := r.style.TextColorOr(color.Black)
	if r.style.Underline {
		y := rect.Max.Y - 1
		if err := r.target.FillRect(image.Rect(rect.Min.X, y, rect.Max.X, y+1), c); err != nil {
			return err
		}
	}
	if r.style.Strikethrough {
		y := rect.Min.Y + rect.Dy()/2
		if err := r.target.FillRect(image.Rect(rect.Min.X, y, rect.Max.X, y+1), c); err != nil {
			return err
		}
	}
	return nil
}
