package layout

import "image"

// LineCursor tracks the horizontal position within one line.
type LineCursor struct {
	position int
	width    int
	tabWidth int
}

// NewLineCursor returns a cursor at the start of a line width pixels wide.
func NewLineCursor(width, tabWidth int) LineCursor {
	return LineCursor{width: width, tabWidth: tabWidth}
}

func (c LineCursor) Position() int { return c.position }

func (c LineCursor) LineWidth() int { return c.width }

// Space returns the remaining width of the line.
func (c LineCursor) Space() int { return c.width - c.position }

// FitsInLine reports whether width more pixels fit on the line.
func (c LineCursor) FitsInLine(width int) bool { return width <= c.Space() }

// MoveCursor moves the cursor by delta pixels. A move that would leave the
// line is clipped to the line edge; the clipped distance is returned with
// false.
func (c *LineCursor) MoveCursor(delta int) (int, bool) {
	if delta < 0 {
		if -delta <= c.position {
			c.position += delta
			return delta, true
		}
		moved := -c.position
		c.position = 0
		return moved, false
	}
	if space := c.Space(); delta > space {
		c.position += space
		return space, false
	}
	c.position += delta
	return delta, true
}

// NextTabWidth returns the distance to the next tab stop.
func (c LineCursor) NextTabWidth() int {
	if c.tabWidth <= 0 {
		return 0
	}
	return c.tabWidth - c.position%c.tabWidth
}

// Cursor tracks the vertical position of lines inside a box.
type Cursor struct {
	// Y is the top of the current line.
	Y          int
	bounds     image.Rectangle
	lineHeight int
	advance    int
	tabWidth   int
}

// NewCursor returns a cursor at the top of bounds. baseLineHeight is the
// font's line height; lh decides how far each new line advances.
func NewCursor(bounds image.Rectangle, baseLineHeight int, lh LineHeight, tabWidth int) Cursor {
	return Cursor{
		Y:          bounds.Min.Y,
		bounds:     bounds,
		lineHeight: baseLineHeight,
		advance:    lh.Resolve(baseLineHeight),
		tabWidth:   tabWidth,
	}
}

// Line returns a cursor for a new line at the current position.
func (c Cursor) Line() LineCursor { return NewLineCursor(c.bounds.Dx(), c.tabWidth) }

// LineHeight returns the height of a single line of glyphs.
func (c Cursor) LineHeight() int { return c.lineHeight }

// Advance returns the distance between the tops of two consecutive lines.
func (c Cursor) Advance() int { return c.advance }

func (c Cursor) LineWidth() int { return c.bounds.Dx() }

func (c Cursor) Bounds() image.Rectangle { return c.bounds }

// NewLine moves to the next line.
func (c *Cursor) NewLine() { c.Y += c.advance }

// Skip adds extra vertical space, such as paragraph spacing.
func (c *Cursor) Skip(px int) { c.Y += px }

// InDisplayArea reports whether the current line lies fully inside the box.
func (c Cursor) InDisplayArea() bool {
	return c.Y >= c.bounds.Min.Y && c.Y+c.lineHeight <= c.bounds.Max.Y
}
