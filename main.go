package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/linebox/binding"
	"github.com/ByLCY/linebox/fonts"
	"github.com/ByLCY/linebox/layout"
	"github.com/ByLCY/linebox/plugin"
	"github.com/ByLCY/linebox/renderer"
	canvasrenderer "github.com/ByLCY/linebox/renderer/canvas"
	rasterrenderer "github.com/ByLCY/linebox/renderer/raster"
	textrenderer "github.com/ByLCY/linebox/renderer/text"
	"github.com/ByLCY/linebox/textbox"
)

// config 汇总命令行参数。
type config struct {
	input, text, output, debug string
	data                       string

	width, height    int
	align, valign    string
	tab, lineHeight  string
	paragraphSpacing int
	ansi, tail       bool
	eastAsian        bool

	font       string
	size, dpmm float64
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "", "输入文本文件路径，- 表示标准输入")
	flag.StringVar(&cfg.text, "text", "", "直接给出的输入文本，优先于 -in")
	flag.StringVar(&cfg.output, "out", "-", "输出路径：.png、.pdf、.txt，- 表示以纯文本写到标准输出")
	flag.StringVar(&cfg.data, "data", "", "绑定到文本中 ${path} 占位符的 JSON 数据")
	flag.StringVar(&cfg.debug, "debug", "", "排版调试 JSON 输出路径，- 表示标准错误")
	flag.IntVar(&cfg.width, "width", 40, "文本框宽度（像素，纯文本时为列数）")
	flag.IntVar(&cfg.height, "height", 0, "文本框高度，0 表示按内容自动计算")
	flag.StringVar(&cfg.align, "align", "left", "水平对齐：left、center、right、justified")
	flag.StringVar(&cfg.valign, "valign", "top", "垂直对齐：top、middle、bottom")
	flag.StringVar(&cfg.tab, "tab", "4", "制表符宽度，例如 4、8sp、24px")
	flag.StringVar(&cfg.lineHeight, "line-height", "100%", "行高，例如 120% 或 14px")
	flag.IntVar(&cfg.paragraphSpacing, "paragraph-spacing", 0, "段落间距（像素）")
	flag.BoolVar(&cfg.ansi, "ansi", false, "解析 ANSI 转义序列")
	flag.BoolVar(&cfg.tail, "tail", false, "内容超出时显示最后几行")
	flag.BoolVar(&cfg.eastAsian, "east-asian", false, "纯文本输出时将歧义宽度字符视为双列")
	flag.StringVar(&cfg.font, "font", "", "字体：embed:<名称> 或字体文件路径，可选 "+strings.Join(fonts.Names(), "、"))
	flag.Float64Var(&cfg.size, "size", 12, "字号（pt）")
	flag.Float64Var(&cfg.dpmm, "dpmm", 4, "PDF 输出时每毫米的像素数")
	flag.Parse()

	if err := run(cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	if cfg.output != "-" {
		fmt.Fprintf(os.Stderr, "已生成：%s\n", cfg.output)
	}
}

// run 串联读取、排版与渲染。
func run(cfg config, stdin io.Reader, stdout, stderr io.Writer) error {
	text, err := readInput(cfg, stdin)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	st, err := boxStyle(cfg)
	if err != nil {
		return err
	}

	tb := textbox.New(text, image.Rect(0, 0, cfg.width, cfg.height), st)
	if cfg.tail {
		tb.WithPlugin(plugin.Tail{})
	}
	if cfg.height <= 0 {
		h, err := tb.MeasureHeight(r)
		if err != nil {
			return fmt.Errorf("测量高度失败: %w", err)
		}
		if h <= 0 {
			h = r.LineHeight()
		}
		tb.Bounds.Max.Y = h
	}

	if cfg.debug != "" {
		if err := writeDebug(tb, r, cfg.debug, stderr); err != nil {
			return err
		}
	}

	data, err := r.Render(tb)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if cfg.output == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// readInput 读取输入文本，并用 -data 中的 JSON 填充占位符。
func readInput(cfg config, stdin io.Reader) (string, error) {
	text, err := readText(cfg, stdin)
	if err != nil || cfg.data == "" {
		return text, err
	}
	var data any
	if err := json.Unmarshal([]byte(cfg.data), &data); err != nil {
		return "", fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return binding.Fill(text, data), nil
}

func readText(cfg config, stdin io.Reader) (string, error) {
	switch {
	case cfg.text != "":
		return cfg.text, nil
	case cfg.input == "" || cfg.input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(cfg.input)
		if err != nil {
			return "", fmt.Errorf("无法打开输入文件 %s: %w", cfg.input, err)
		}
		return string(data), nil
	}
}

func boxStyle(cfg config) (textbox.Style, error) {
	align, err := layout.ParseHorizontalAlignment(cfg.align)
	if err != nil {
		return textbox.Style{}, err
	}
	valign, err := textbox.ParseVerticalAlignment(cfg.valign)
	if err != nil {
		return textbox.Style{}, err
	}
	tab, err := layout.ParseTabSize(cfg.tab)
	if err != nil {
		return textbox.Style{}, err
	}
	lh, err := layout.ParseLineHeight(cfg.lineHeight)
	if err != nil {
		return textbox.Style{}, err
	}
	return textbox.Style{
		Alignment:         align,
		VerticalAlignment: valign,
		LineHeight:        lh,
		TabSize:           tab,
		ParagraphSpacing:  cfg.paragraphSpacing,
		EscapeSequences:   cfg.ansi,
	}, nil
}

// newRenderer 按输出文件扩展名选择渲染器。
func newRenderer(cfg config) (renderer.Renderer, error) {
	ext := strings.ToLower(filepath.Ext(cfg.output))
	switch {
	case cfg.output == "-" || ext == ".txt":
		return textrenderer.NewRenderer(cfg.eastAsian), nil
	case ext == ".png":
		opts := rasterrenderer.Options{Background: color.White}
		if cfg.font != "" {
			data, err := loadFont(cfg.font)
			if err != nil {
				return nil, err
			}
			if opts.Face, err = rasterrenderer.NewOpenTypeFace(data, cfg.size, 72); err != nil {
				return nil, err
			}
		}
		return rasterrenderer.NewRendererWithOptions(opts), nil
	case ext == ".pdf":
		var data []byte
		if cfg.font != "" {
			var err error
			if data, err = loadFont(cfg.font); err != nil {
				return nil, err
			}
		}
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Font: data, Size: cfg.size, DPMM: cfg.dpmm})
	}
	return nil, fmt.Errorf("不支持的输出格式 %q（可选 .png、.pdf、.txt 或 -）", cfg.output)
}

// loadFont 读取 embed: 内置字体或字体文件。
func loadFont(src string) ([]byte, error) {
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// writeDebug 输出排版调试 JSON，path 为 - 时写到标准错误。
func writeDebug(tb *textbox.TextBox, f textbox.Font, debugPath string, stderr io.Writer) error {
	res, err := tb.Layout(f)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	if debugPath == "-" {
		err = textbox.EncodeDebug(stderr, res)
	} else {
		err = textbox.WriteDebugJSON(res, debugPath)
	}
	if err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
