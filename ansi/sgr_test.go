package ansi

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var _ color.Color = Rgb{}

func TestParseSgr(t *testing.T) {
	tests := []struct {
		name   string
		params []int
		want   []Sgr
	}{
		{"空参数", nil, []Sgr{{Kind: SgrReset}}},
		{"装饰", []int{4, 9, 24, 29}, []Sgr{{Kind: SgrUnderline}, {Kind: SgrCrossedOut}, {Kind: SgrUnderlineOff}, {Kind: SgrNotCrossedOut}}},
		{"标准前景", []int{31}, []Sgr{{Kind: SgrTextColor, Color: Rgb{197, 15, 31}}}},
		{"亮色背景", []int{107}, []Sgr{{Kind: SgrBackgroundColor, Color: Rgb{242, 242, 242}}}},
		{"默认颜色", []int{39, 49}, []Sgr{{Kind: SgrDefaultTextColor}, {Kind: SgrDefaultBackgroundColor}}},
		{"256 色", []int{38, 5, 196}, []Sgr{{Kind: SgrTextColor, Color: Rgb{255, 0, 0}}}},
		{"真彩色", []int{48, 2, 1, 2, 3, 4}, []Sgr{{Kind: SgrBackgroundColor, Color: Rgb{1, 2, 3}}, {Kind: SgrUnderline}}},
		{"截断的扩展色", []int{4, 38, 5}, []Sgr{{Kind: SgrUnderline}}},
		{"未知代码被忽略", []int{1, 3, 4}, []Sgr{{Kind: SgrUnderline}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseSgr(tt.params)); diff != "" {
				t.Fatalf("SGR 解析不匹配 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStandardColor(t *testing.T) {
	tests := []struct {
		idx  uint8
		want Rgb
	}{
		{0, Rgb{12, 12, 12}},
		{9, Rgb{231, 72, 86}},
		{16, Rgb{0, 0, 0}},
		{21, Rgb{0, 0, 255}},
		{231, Rgb{255, 255, 255}},
		{232, Rgb{8, 8, 8}},
		{255, Rgb{238, 238, 238}},
	}
	for _, tt := range tests {
		if got := StandardColor(tt.idx); got != tt.want {
			t.Fatalf("颜色 %d 错误, got %+v want %+v", tt.idx, got, tt.want)
		}
	}
}

func TestRgbImplementsColor(t *testing.T) {
	r, g, b, a := Rgb{0xff, 0x80, 0}.RGBA()
	if r != 0xffff || g != 0x8080 || b != 0 || a != 0xffff {
		t.Fatalf("RGBA 转换错误: %x %x %x %x", r, g, b, a)
	}
}
