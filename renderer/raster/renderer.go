// Package rasterrenderer draws text boxes onto an RGBA image and encodes it
// as PNG.
package rasterrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/linebox/fonts"
	"github.com/ByLCY/linebox/renderer"
	"github.com/ByLCY/linebox/style"
	"github.com/ByLCY/linebox/textbox"
)

// Options configures the raster renderer.
type Options struct {
	// Face 为空时使用 basicfont.Face7x13。
	Face font.Face
	// Foreground is the text color used when the character style sets none.
	Foreground color.Color
	// Background fills the image before drawing; nil leaves it transparent.
	Background color.Color
}

// Renderer measures and draws with a font.Face.
type Renderer struct {
	face       font.Face
	foreground color.Color
	background color.Color
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ textbox.Target    = (*surface)(nil)
)

// NewRenderer returns a renderer using the built-in 7x13 bitmap face.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer from opts, filling in defaults.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{face: opts.Face, foreground: opts.Foreground, background: opts.Background}
	if r.face == nil {
		r.face = basicfont.Face7x13
	}
	if r.foreground == nil {
		r.foreground = color.Black
	}
	return r
}

// NewOpenTypeFace 解析 TrueType/OpenType 字体数据并创建字号为 size（pt）的字体面。
// data 为空时使用内置默认字体。
func NewOpenTypeFace(data []byte, size, dpi float64) (font.Face, error) {
	if len(data) == 0 {
		var err error
		if data, err = fonts.Load(fonts.Regular); err != nil {
			return nil, err
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	if dpi <= 0 {
		dpi = 72
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("创建字体面失败: %w", err)
	}
	return face, nil
}

// Measure 返回文本的像素宽度（向上取整）。
func (r *Renderer) Measure(text string) int {
	return font.MeasureString(r.face, text).Ceil()
}

func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil()
}

// Render draws tb onto an image covering tb.Bounds.Max and returns it as PNG.
func (r *Renderer) Render(tb *textbox.TextBox) ([]byte, error) {
	img, err := r.Image(tb)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Image draws tb and returns the raw image.
func (r *Renderer) Image(tb *textbox.TextBox) (*image.RGBA, error) {
	if tb == nil {
		return nil, fmt.Errorf("文本框为空")
	}
	size := tb.Bounds.Max
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("图像尺寸无效: %v", size)
	}
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	if r.background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	}
	s := &surface{img: img, face: r.face, foreground: r.foreground, ascent: r.face.Metrics().Ascent}
	if err := tb.Draw(r, s); err != nil {
		return nil, err
	}
	return img, nil
}

// surface adapts an RGBA image to textbox.Target.
type surface struct {
	img        *image.RGBA
	face       font.Face
	foreground color.Color
	ascent     fixed.Int26_6
}

func (s *surface) Bounds() image.Rectangle { return s.img.Bounds() }

func (s *surface) DrawText(text string, at image.Point, st style.Style) error {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(st.TextColorOr(s.foreground)),
		Face: s.face,
		Dot:  fixed.P(at.X, at.Y).Add(fixed.Point26_6{Y: s.ascent}),
	}
	d.DrawString(text)
	return nil
}

func (s *surface) FillRect(r image.Rectangle, c color.Color) error {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Over)
	return nil
}
