// Package plugin defines the hooks a text box exposes to modifiers and the
// wrapper that keeps the modifier in step with the line layout's lookahead.
package plugin

import (
	"image"

	"github.com/ByLCY/linebox/parser"
	"github.com/ByLCY/linebox/style"
)

// ProcessingState tells whether a line is being measured or drawn.
type ProcessingState int

const (
	Measure ProcessingState = iota
	Render
)

func (s ProcessingState) String() string {
	if s == Render {
		return "render"
	}
	return "measure"
}

// Target is the drawing surface handed to PostRender.
type Target interface {
	Bounds() image.Rectangle
}

// RenderContext is passed to OnStartRender before the first line is drawn.
type RenderContext struct {
	// Bounds 是文本框区域。
	Bounds image.Rectangle
	// TextHeight 是测量得到的文本总高度。
	TextHeight int
	LineHeight int
	// Y is where the first line will be drawn. Plugins may move it.
	Y int
}

// Plugin observes and rewrites the token stream of a text box.
//
// Instances are cloned freely while lines are measured, so a plugin must keep
// all mutable state in values that Clone copies.
type Plugin interface {
	Clone() Plugin
	// NewLine is called before every line.
	NewLine()
	// NextToken produces the next token. next pulls the next token from the
	// underlying text; a plugin may drop, replace or insert tokens.
	NextToken(next func() (parser.Token, bool)) (parser.Token, bool)
	// RenderToken may rewrite a token about to be drawn. Returning false
	// suppresses it. A token of a different kind is ignored.
	RenderToken(tok parser.Token) (parser.Token, bool)
	// PostRender is called after a piece of text has been drawn into bounds.
	PostRender(target Target, st style.Style, text string, bounds image.Rectangle) error
	OnStartRender(ctx *RenderContext)
	OnRenderingFinished()
}

// Base implements every hook except Clone as a no-op. Embed it.
type Base struct{}

func (Base) NewLine() {}

func (Base) NextToken(next func() (parser.Token, bool)) (parser.Token, bool) { return next() }

func (Base) RenderToken(tok parser.Token) (parser.Token, bool) { return tok, true }

func (Base) PostRender(Target, style.Style, string, image.Rectangle) error { return nil }

func (Base) OnStartRender(*RenderContext) {}

func (Base) OnRenderingFinished() {}

// NoPlugin is the plugin used when a text box has no modifier.
type NoPlugin struct{ Base }

func (NoPlugin) Clone() Plugin { return NoPlugin{} }
