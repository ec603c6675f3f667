// Package textrenderer lays text out on a character grid, one cell per
// column, for terminals and plain text files.
package textrenderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/ByLCY/linebox/renderer"
	"github.com/ByLCY/linebox/style"
	"github.com/ByLCY/linebox/textbox"
)

// Renderer measures text in terminal columns. A line is one row high.
type Renderer struct {
	cond *runewidth.Condition
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ textbox.Target    = (*Grid)(nil)
)

// NewRenderer returns a renderer. eastAsian treats ambiguous width
// characters as two columns wide.
func NewRenderer(eastAsian bool) *Renderer {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return &Renderer{cond: cond}
}

func (r *Renderer) Measure(text string) int { return r.cond.StringWidth(text) }

func (r *Renderer) LineHeight() int { return 1 }

// Render draws tb on a grid of tb.Bounds.Max cells and returns the rows,
// each without trailing spaces and terminated by a newline.
func (r *Renderer) Render(tb *textbox.TextBox) ([]byte, error) {
	if tb == nil {
		return nil, fmt.Errorf("文本框为空")
	}
	g, err := r.Grid(tb)
	if err != nil {
		return nil, err
	}
	return []byte(g.String()), nil
}

// Grid draws tb and returns the grid.
func (r *Renderer) Grid(tb *textbox.TextBox) (*Grid, error) {
	size := tb.Bounds.Max
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("网格尺寸无效: %v", size)
	}
	g := newGrid(size.X, size.Y, r.cond)
	if err := tb.Draw(r, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Grid 的每个单元格保存一个字素簇；宽字符占用的第二格为 wide。
type Grid struct {
	cells [][]string
	cond  *runewidth.Condition
}

const wide = "\x00"

func newGrid(w, h int, cond *runewidth.Condition) *Grid {
	cells := make([][]string, h)
	for y := range cells {
		cells[y] = make([]string, w)
	}
	return &Grid{cells: cells, cond: cond}
}

func (g *Grid) Bounds() image.Rectangle {
	if len(g.cells) == 0 {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, len(g.cells[0]), len(g.cells))
}

func (g *Grid) DrawText(text string, at image.Point, _ style.Style) error {
	if at.Y < 0 || at.Y >= len(g.cells) {
		return nil
	}
	row := g.cells[at.Y]
	x := at.X
	rest, state := text, -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := g.cond.StringWidth(cluster)
		if w == 0 {
			// 零宽字符附加到前一个单元格
			if x > 0 && x-1 < len(row) {
				row[x-1] += cluster
			}
			continue
		}
		if x >= 0 && x+w <= len(row) {
			row[x] = cluster
			for i := 1; i < w; i++ {
				row[x+i] = wide
			}
		}
		x += w
	}
	return nil
}

// FillRect is a no-op: plain text has no colors.
func (g *Grid) FillRect(image.Rectangle, color.Color) error { return nil }

func (g *Grid) String() string {
	var sb strings.Builder
	for _, row := range g.cells {
		var line strings.Builder
		for _, c := range row {
			switch c {
			case wide:
			case "":
				line.WriteByte(' ')
			default:
				line.WriteString(c)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
