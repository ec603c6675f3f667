package textbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/linebox/ansi"
	"github.com/ByLCY/linebox/layout"
	"github.com/ByLCY/linebox/plugin"
	"github.com/ByLCY/linebox/style"
)

// mono 是 6x8 的等宽测试字体。
type mono struct{}

func (mono) Measure(s string) int { return 6 * utf8.RuneCountInString(s) }

func (mono) LineHeight() int { return 8 }

type drawn struct {
	Text  string
	At    image.Point
	Color color.Color
}

type filled struct {
	Rect  image.Rectangle
	Color color.Color
}

// recorder 记录所有绘制调用。
type recorder struct {
	bounds image.Rectangle
	texts  []drawn
	rects  []filled
}

func (r *recorder) Bounds() image.Rectangle { return r.bounds }

func (r *recorder) DrawText(text string, at image.Point, st style.Style) error {
	r.texts = append(r.texts, drawn{Text: text, At: at, Color: st.TextColor})
	return nil
}

func (r *recorder) FillRect(rect image.Rectangle, c color.Color) error {
	r.rects = append(r.rects, filled{Rect: rect, Color: c})
	return nil
}

func draw(t *testing.T, tb *TextBox) []drawn {
	t.Helper()
	target := &recorder{bounds: tb.Bounds}
	if err := tb.Draw(mono{}, target); err != nil {
		t.Fatalf("绘制失败: %v", err)
	}
	return target.texts
}

func TestMeasureHeight(t *testing.T) {
	data := []struct {
		text   string
		width  int
		height int
	}{
		{"", 0, 0},
		{"word", 4 * 6, 8},
		{"word", 4*6 - 1, 16},
		{"word", 2 * 6, 16},
		{"word\nnext", 50, 16},
		{"verylongword", 50, 16},
		{"some verylongword", 50, 24},
		{"1 23456 12345 61234 561", 36, 40},
	}
	for _, d := range data {
		tb := New(d.text, image.Rect(0, 0, d.width, 100), Style{})
		got, err := tb.MeasureHeight(mono{})
		if err != nil {
			t.Fatalf("测量 %q 出错: %v", d.text, err)
		}
		if got != d.height {
			t.Fatalf("%q 在宽度 %d 下高度为 %d，期望 %d", d.text, d.width, got, d.height)
		}
	}
}

func TestMeasureHeightWithSpacing(t *testing.T) {
	tb := New("a\nb c", image.Rect(0, 0, 6, 100), Style{LineHeight: layout.Percent(150), ParagraphSpacing: 3})
	got, err := tb.MeasureHeight(mono{})
	if err != nil {
		t.Fatal(err)
	}
	// a | b | c：12 + 3 段落间距，12，最后一行只计字体行高 8
	if got != 35 {
		t.Fatalf("高度期望 35，实际 %d", got)
	}
}

func TestLayout(t *testing.T) {
	tb := New("Hello world\nbye", image.Rect(0, 0, 36, 40), Style{})
	res, err := tb.Layout(mono{})
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	var ends []layout.LineEndType
	for _, l := range res.Lines {
		texts = append(texts, l.Text())
		ends = append(ends, l.End)
	}
	if diff := cmp.Diff([]string{"Hello", "world", "bye"}, texts); diff != "" {
		t.Fatalf("行内容不匹配 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]layout.LineEndType{layout.LineBreak, layout.NewLine, layout.EndOfText}, ends); diff != "" {
		t.Fatalf("行结束类型不匹配 (-want +got):\n%s", diff)
	}
	if res.Height != 24 || res.Lines[2].Y != 16 || res.Lines[0].Width != 30 {
		t.Fatalf("排版结果错误: %+v", res)
	}
}

func TestNoFont(t *testing.T) {
	tb := New("x", image.Rect(0, 0, 10, 10), Style{})
	if _, err := tb.MeasureHeight(nil); !errors.Is(err, ErrNoFont) {
		t.Fatalf("缺少字体应返回 ErrNoFont, got %v", err)
	}
	if err := tb.Draw(nil, &recorder{}); !errors.Is(err, ErrNoFont) {
		t.Fatalf("缺少字体应返回 ErrNoFont, got %v", err)
	}
}

func TestDrawLeft(t *testing.T) {
	got := draw(t, New("Hello world", image.Rect(0, 0, 36, 40), Style{}))
	want := []drawn{{Text: "Hello"}, {Text: "world", At: image.Pt(0, 8)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("左对齐绘制不匹配 (-want +got):\n%s", diff)
	}
}

func TestDrawHorizontalAlignment(t *testing.T) {
	tests := []struct {
		align layout.HorizontalAlignment
		want  []drawn
	}{
		{layout.AlignCenter, []drawn{{Text: "ab", At: image.Pt(9, 0)}, {Text: "cd", At: image.Pt(27, 0)}, {Text: "efg", At: image.Pt(15, 8)}}},
		{layout.AlignRight, []drawn{{Text: "ab", At: image.Pt(18, 0)}, {Text: "cd", At: image.Pt(36, 0)}, {Text: "efg", At: image.Pt(30, 8)}}},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			got := draw(t, New("ab cd\nefg", image.Rect(0, 0, 48, 40), Style{Alignment: tt.align}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("对齐绘制不匹配 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDrawCenteredIgnoresLeadingSpaces(t *testing.T) {
	got := draw(t, New("   ab", image.Rect(0, 0, 48, 40), Style{Alignment: layout.AlignCenter}))
	want := []drawn{{Text: "ab", At: image.Pt(18, 0)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("居中时行首空白不应参与定位 (-want +got):\n%s", diff)
	}
}

func TestDrawLeadingSpacesWiderThanBox(t *testing.T) {
	for _, align := range []layout.HorizontalAlignment{layout.AlignCenter, layout.AlignRight} {
		got := draw(t, New("     ab", image.Rect(0, 0, 24, 40), Style{Alignment: align}))
		x := 6
		if align == layout.AlignRight {
			x = 12
		}
		want := []drawn{{Text: "ab", At: image.Pt(x, 0)}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%v: 行首空白不应挤掉后面的单词 (-want +got):\n%s", align, diff)
		}
	}
}

func TestDrawJustified(t *testing.T) {
	want := []drawn{
		{Text: "aa"},
		{Text: "b", At: image.Pt(27, 0)},
		{Text: "cc", At: image.Pt(48, 0)},
		{Text: "dddd", At: image.Pt(0, 8)},
	}
	// 行首空白不影响两端对齐
	for _, text := range []string{"aa b cc dddd", "  aa b cc dddd"} {
		got := draw(t, New(text, image.Rect(0, 0, 60, 40), Style{Alignment: layout.AlignJustified}))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%q 两端对齐绘制不匹配 (-want +got):\n%s", text, diff)
		}
	}
}

func TestDrawVerticalAlignment(t *testing.T) {
	for _, tt := range []struct {
		valign VerticalAlignment
		y      int
	}{{AlignTop, 0}, {AlignMiddle, 16}, {AlignBottom, 32}} {
		got := draw(t, New("ab", image.Rect(0, 0, 60, 40), Style{VerticalAlignment: tt.valign}))
		if len(got) != 1 || got[0].At.Y != tt.y {
			t.Fatalf("%v 对齐时 y 期望 %d，实际 %+v", tt.valign, tt.y, got)
		}
	}
}

func TestDrawClipsToBox(t *testing.T) {
	got := draw(t, New("aa bb cc dd", image.Rect(0, 0, 12, 16), Style{}))
	want := []drawn{{Text: "aa"}, {Text: "bb", At: image.Pt(0, 8)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("超出文本框的行不应绘制 (-want +got):\n%s", diff)
	}
}

func TestDrawWithTail(t *testing.T) {
	tb := New("aa bb cc dd", image.Rect(0, 0, 12, 16), Style{}).WithPlugin(plugin.Tail{})
	got := draw(t, tb)
	want := []drawn{{Text: "cc"}, {Text: "dd", At: image.Pt(0, 8)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Tail 应显示最后几行 (-want +got):\n%s", diff)
	}
}

func TestDrawEscapeSequences(t *testing.T) {
	initial := style.Style{TextColor: color.Black}
	tb := New("a \x1b[4;31mb\x1b[0m c", image.Rect(0, 0, 60, 40), Style{EscapeSequences: true, Character: initial})
	target := &recorder{bounds: tb.Bounds}
	if err := tb.Draw(mono{}, target); err != nil {
		t.Fatal(err)
	}
	red := color.Color(ansi.StandardColor(1))
	want := []drawn{
		{Text: "a", Color: color.Black},
		{Text: "b", At: image.Pt(12, 0), Color: red},
		{Text: "c", At: image.Pt(24, 0), Color: color.Black},
	}
	if diff := cmp.Diff(want, target.texts); diff != "" {
		t.Fatalf("SGR 颜色不匹配 (-want +got):\n%s", diff)
	}
	underline := []filled{{Rect: image.Rect(12, 7, 18, 8), Color: red}}
	if diff := cmp.Diff(underline, target.rects); diff != "" {
		t.Fatalf("下划线不匹配 (-want +got):\n%s", diff)
	}
}

func TestDrawBackgroundCoversSpaces(t *testing.T) {
	tb := New("\x1b[44ma b", image.Rect(0, 0, 60, 40), Style{EscapeSequences: true})
	target := &recorder{bounds: tb.Bounds}
	if err := tb.Draw(mono{}, target); err != nil {
		t.Fatal(err)
	}
	if len(target.rects) != 3 {
		t.Fatalf("背景应覆盖文字与空白, got %+v", target.rects)
	}
	if target.rects[1].Rect != image.Rect(6, 0, 12, 8) {
		t.Fatalf("空白背景区域错误: %+v", target.rects[1])
	}
}

// counter 统计绘制过程中的钩子调用，并可让 PostRender 失败。
type counter struct {
	plugin.Base
	started, finished, posted *int
	fail                      error
}

func (c counter) Clone() plugin.Plugin { return c }

func (c counter) OnStartRender(*plugin.RenderContext) { *c.started++ }

func (c counter) OnRenderingFinished() { *c.finished++ }

func (c counter) PostRender(plugin.Target, style.Style, string, image.Rectangle) error {
	*c.posted++
	return c.fail
}

func TestPluginHooksAndOwnership(t *testing.T) {
	var started, finished, posted int
	p := counter{started: &started, finished: &finished, posted: &posted}
	tb := New("a b", image.Rect(0, 0, 60, 40), Style{}).WithPlugin(p)
	draw(t, tb)
	if started != 1 || finished != 1 {
		t.Fatalf("开始/结束钩子应各调用一次: %d %d", started, finished)
	}
	if posted != 3 {
		t.Fatalf("PostRender 应针对 a、空白、b 调用 3 次, got %d", posted)
	}
	if _, ok := tb.Plugin().(counter); !ok {
		t.Fatalf("Plugin() 应返回原插件类型, got %T", tb.Plugin())
	}
}

func TestPostRenderErrorAborts(t *testing.T) {
	var started, finished, posted int
	boom := errors.New("boom")
	p := counter{started: &started, finished: &finished, posted: &posted, fail: boom}
	tb := New("a b", image.Rect(0, 0, 60, 40), Style{}).WithPlugin(p)
	err := tb.Draw(mono{}, &recorder{bounds: tb.Bounds})
	if !errors.Is(err, boom) {
		t.Fatalf("应返回 PostRender 的错误, got %v", err)
	}
	if posted != 1 {
		t.Fatalf("出错后应立即停止, posted=%d", posted)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res, err := New("ab cd", image.Rect(0, 0, 18, 40), Style{}).Layout(mono{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeDebug(&buf, res); err != nil {
		t.Fatalf("编码调试 JSON 失败: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Alignment string `json:"alignment"`
		Lines     []struct {
			End    string `json:"end"`
			Events []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"events"`
		} `json:"lines"`
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Fatalf("写文件与写入 io.Writer 的内容应一致")
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if decoded.Alignment != "left" || len(decoded.Lines) != 2 || decoded.Lines[0].End != "line-break" {
		t.Fatalf("调试 JSON 内容错误: %s", data)
	}
	if ev := decoded.Lines[1].Events[0]; ev.Kind != "printed" || ev.Text != "cd" {
		t.Fatalf("事件内容错误: %+v", ev)
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("空结果不应报错: %v", err)
	}
}

func TestParseVerticalAlignment(t *testing.T) {
	for in, want := range map[string]VerticalAlignment{"": AlignTop, "Middle": AlignMiddle, "bottom": AlignBottom} {
		got, err := ParseVerticalAlignment(in)
		if err != nil || got != want {
			t.Fatalf("解析 %q 期望 %v，实际 %v", in, want, got)
		}
	}
	if _, err := ParseVerticalAlignment("sideways"); err == nil {
		t.Fatalf("未知垂直对齐应报错")
	}
}
