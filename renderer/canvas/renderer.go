package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/linebox/fonts"
	"github.com/ByLCY/linebox/renderer"
	"github.com/ByLCY/linebox/style"
	"github.com/ByLCY/linebox/textbox"
)

const (
	defaultSize = 12.0 // pt
	defaultDPMM = 4.0
)

// Renderer draws text boxes into a PDF via github.com/tdewolff/canvas.
//
// 排版以像素为单位：1 mm 等于 DPMM 像素，渲染时再换算回毫米。
type Renderer struct {
	family *canvas.FontFamily
	size   float64
	dpmm   float64
	color  color.Color
	bg     color.Color

	faceMu sync.Mutex
	faces  map[color.RGBA]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ textbox.Target    = (*surface)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// Font 为 TrueType/OpenType 字体数据，为空时使用内置默认字体。
	Font []byte
	// Size is the font size in points.
	Size float64
	// DPMM is the number of layout pixels per millimetre.
	DPMM float64
	// Color is the default text color.
	Color color.Color
	// Background fills the page before drawing; nil leaves it blank.
	Background color.Color
}

// NewRenderer loads the font and creates a renderer.
func NewRenderer(opts Options) (*Renderer, error) {
	data := opts.Font
	if len(data) == 0 {
		var err error
		if data, err = fonts.Load(fonts.Regular); err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily("linebox")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r := &Renderer{
		family: family,
		size:   opts.Size,
		dpmm:   opts.DPMM,
		color:  opts.Color,
		bg:     opts.Background,
		faces:  map[color.RGBA]*canvas.FontFace{},
	}
	if r.size <= 0 {
		r.size = defaultSize
	}
	if r.dpmm <= 0 {
		r.dpmm = defaultDPMM
	}
	if r.color == nil {
		r.color = color.Black
	}
	return r, nil
}

// face returns the font face drawing in c, creating it on first use.
func (r *Renderer) face(c color.Color) *canvas.FontFace {
	key := color.RGBAModel.Convert(c).(color.RGBA)
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f
	}
	f := r.family.Face(r.size, key, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = f
	return f
}

// Measure 返回文本宽度（像素，向上取整）。
func (r *Renderer) Measure(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(r.face(r.color).TextWidth(text) * r.dpmm))
}

func (r *Renderer) LineHeight() int {
	return int(math.Ceil(r.face(r.color).Metrics().LineHeight * r.dpmm))
}

// Render draws tb on a page of tb.Bounds.Max pixels and returns the PDF.
func (r *Renderer) Render(tb *textbox.TextBox) ([]byte, error) {
	if tb == nil {
		return nil, fmt.Errorf("文本框为空")
	}
	size := tb.Bounds.Max
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %v", size)
	}
	width, height := r.mm(size.X), r.mm(size.Y)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点
	s := &surface{r: r, ctx: ctx, bounds: image.Rectangle{Max: size}}
	if r.bg != nil {
		if err := s.FillRect(s.bounds, r.bg); err != nil {
			return nil, err
		}
	}
	if err := tb.Draw(r, s); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// mm 将像素换算为毫米。
func (r *Renderer) mm(px int) float64 { return float64(px) / r.dpmm }

// surface adapts a canvas context to textbox.Target.
type surface struct {
	r      *Renderer
	ctx    *canvas.Context
	bounds image.Rectangle
}

func (s *surface) Bounds() image.Rectangle { return s.bounds }

func (s *surface) DrawText(text string, at image.Point, st style.Style) error {
	face := s.r.face(st.TextColorOr(s.r.color))
	line := canvas.NewTextLine(face, text, canvas.Left)
	// 基线位置：行顶部加上字体上升部
	baseline := s.r.mm(at.Y) + face.Metrics().Ascent
	s.ctx.DrawText(s.r.mm(at.X), baseline, line)
	return nil
}

func (s *surface) FillRect(rect image.Rectangle, c color.Color) error {
	if rect.Empty() {
		return nil
	}
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(s.r.mm(rect.Min.X), s.r.mm(rect.Min.Y), canvas.Rectangle(s.r.mm(rect.Dx()), s.r.mm(rect.Dy())))
	return nil
}
