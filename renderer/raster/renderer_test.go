package rasterrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ByLCY/linebox/fonts"
	"github.com/ByLCY/linebox/textbox"
)

// inked 统计区域内与背景不同的像素数。
func inked(img *image.RGBA, r image.Rectangle, bg color.Color) int {
	want := color.RGBAModel.Convert(bg)
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.At(x, y) != want {
				n++
			}
		}
	}
	return n
}

func TestBasicFaceMetrics(t *testing.T) {
	r := NewRenderer()
	if got := r.Measure("ab"); got != 14 {
		t.Fatalf("7x13 字体下 \"ab\" 宽度应为 14, got %d", got)
	}
	if got := r.LineHeight(); got != 13 {
		t.Fatalf("行高应为 13, got %d", got)
	}
}

func TestRenderPNG(t *testing.T) {
	r := NewRendererWithOptions(Options{Background: color.White})
	tb := textbox.New("ab cd", image.Rect(0, 0, 40, 30), textbox.Style{})
	data, err := r.Render(tb)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Fatalf("图像尺寸错误: %v", img.Bounds())
	}
}

func TestImageWrapsLines(t *testing.T) {
	r := NewRendererWithOptions(Options{Background: color.White})
	// 宽 21 只能放下 3 个字符，"ab cd" 折成两行
	img, err := r.Image(textbox.New("ab cd", image.Rect(0, 0, 21, 30), textbox.Style{}))
	if err != nil {
		t.Fatal(err)
	}
	if inked(img, image.Rect(0, 0, 14, 13), color.White) == 0 {
		t.Fatalf("第一行应有文字像素")
	}
	if inked(img, image.Rect(0, 13, 14, 26), color.White) == 0 {
		t.Fatalf("第二行应有文字像素")
	}
	if n := inked(img, image.Rect(0, 26, 21, 30), color.White); n != 0 {
		t.Fatalf("第三行区域应为空白, got %d", n)
	}
}

func TestImageEscapeColors(t *testing.T) {
	r := NewRendererWithOptions(Options{Background: color.White})
	tb := textbox.New("\x1b[41m  \x1b[0m", image.Rect(0, 0, 40, 13), textbox.Style{EscapeSequences: true})
	img, err := r.Image(tb)
	if err != nil {
		t.Fatal(err)
	}
	got := img.RGBAAt(3, 5)
	if got.R < 150 || got.G > 50 {
		t.Fatalf("背景色应为红色, got %v", got)
	}
	if img.RGBAAt(30, 5) != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("重置后不应再填充背景")
	}
}

func TestImageRejectsEmptyBounds(t *testing.T) {
	if _, err := NewRenderer().Image(textbox.New("x", image.Rect(0, 0, 0, 10), textbox.Style{})); err == nil {
		t.Fatalf("零尺寸图像应报错")
	}
	if _, err := NewRenderer().Image(nil); err == nil {
		t.Fatalf("空文本框应报错")
	}
}

func TestOpenTypeFace(t *testing.T) {
	data, err := fonts.Load("go-mono")
	if err != nil {
		t.Fatal(err)
	}
	face, err := NewOpenTypeFace(data, 12, 72)
	if err != nil {
		t.Fatalf("创建字体面失败: %v", err)
	}
	r := NewRendererWithOptions(Options{Face: face})
	if r.Measure("iii") != r.Measure("WWW") {
		t.Fatalf("等宽字体的宽度应一致")
	}
	if r.LineHeight() <= 0 {
		t.Fatalf("行高应为正数")
	}
	if _, err := NewOpenTypeFace([]byte("not a font"), 12, 72); err == nil {
		t.Fatalf("非法字体数据应报错")
	}
	if _, err := NewOpenTypeFace(nil, 12, 0); err != nil {
		t.Fatalf("空数据应使用默认字体: %v", err)
	}
}
