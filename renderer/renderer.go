package renderer

import "github.com/ByLCY/linebox/textbox"

// Renderer 将文本框输出为最终文件，例如 PNG、PDF 或纯文本。
// 它同时充当排版所需的字体：宽度与行高均以目标像素为单位。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	textbox.Font
	Render(tb *textbox.TextBox) ([]byte, error)
}
