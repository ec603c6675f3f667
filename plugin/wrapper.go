package plugin

import (
	"fmt"
	"image"
	"strings"
	"sync/atomic"

	"github.com/ByLCY/linebox/parser"
	"github.com/ByLCY/linebox/style"
)

type peekedToken struct {
	// n 是产生该记号时从源文本读取的字节数。
	n   int
	tok parser.Token
	ok  bool
}

type state struct {
	// plugin 只见过已消费的记号；lookahead 额外见过 peeked。
	plugin    Plugin
	lookahead Plugin
	phase     ProcessingState
	peeked    *peekedToken
}

// Wrapper drives a Plugin for the line layout. It caches one peeked token so
// that the layout can inspect a token, decide, and then consume it fully,
// partially, or not at all.
//
// A Wrapper is not safe for concurrent use. Re-entering it from a hook panics.
type Wrapper struct {
	busy  atomic.Bool
	inner state
}

// NewWrapper wraps p. A nil p behaves like NoPlugin.
func NewWrapper(p Plugin) *Wrapper {
	if p == nil {
		p = NoPlugin{}
	}
	return &Wrapper{inner: state{plugin: p, lookahead: p.Clone()}}
}

func (w *Wrapper) borrow() *state {
	if !w.busy.CompareAndSwap(false, true) {
		panic("plugin: wrapper state is already borrowed")
	}
	return &w.inner
}

func (w *Wrapper) release() { w.busy.Store(false) }

// Clone returns an independent copy sharing no mutable state with w.
func (w *Wrapper) Clone() *Wrapper {
	s := w.borrow()
	defer w.release()
	c := &Wrapper{inner: state{
		plugin:    s.plugin.Clone(),
		lookahead: s.lookahead.Clone(),
		phase:     s.phase,
	}}
	if s.peeked != nil {
		peeked := *s.peeked
		c.inner.peeked = &peeked
	}
	return c
}

// Plugin returns the wrapped plugin.
func (w *Wrapper) Plugin() Plugin {
	s := w.borrow()
	defer w.release()
	return s.plugin
}

func (w *Wrapper) State() ProcessingState {
	s := w.borrow()
	defer w.release()
	return s.phase
}

func (w *Wrapper) SetState(phase ProcessingState) {
	s := w.borrow()
	defer w.release()
	s.phase = phase
}

// NewLine notifies the plugin that a new line starts. A token peeked but not
// consumed stays cached; the lookahead instance is notified as well so the
// two instances stay consistent.
func (w *Wrapper) NewLine() {
	s := w.borrow()
	defer w.release()
	s.plugin.NewLine()
	if s.peeked == nil {
		s.lookahead = s.plugin.Clone()
	} else {
		s.lookahead.NewLine()
	}
}

// PeekToken returns the next token of src as seen through the plugin without
// consuming it. Repeated calls return the cached token.
func (w *Wrapper) PeekToken(src *parser.Parser) (parser.Token, bool) {
	s := w.borrow()
	defer w.release()
	if s.peeked == nil {
		cloned := *src
		tok, ok := s.lookahead.NextToken(cloned.Next)
		s.peeked = &peekedToken{n: src.Remaining() - cloned.Remaining(), tok: tok, ok: ok}
	}
	return s.peeked.tok, s.peeked.ok
}

// Lookahead returns a copy of src positioned after the peeked token.
func (w *Wrapper) Lookahead(src *parser.Parser) parser.Parser {
	s := w.borrow()
	defer w.release()
	cloned := *src
	if s.peeked != nil {
		cloned.Consume(s.peeked.n)
	}
	return cloned
}

// ConsumePeeked advances src past the peeked token and commits the plugin
// state that produced it.
func (w *Wrapper) ConsumePeeked(src *parser.Parser) {
	s := w.borrow()
	defer w.release()
	s.consume(src)
}

func (s *state) consume(src *parser.Parser) {
	if s.peeked != nil {
		src.Consume(s.peeked.n)
		s.peeked = nil
	}
	s.plugin = s.lookahead.Clone()
}

// ConsumePartial takes the first n characters of the peeked Word or
// Whitespace token. The rest stays cached and the hook is not invoked again.
// Taking the whole token consumes it.
func (w *Wrapper) ConsumePartial(src *parser.Parser, n int) {
	s := w.borrow()
	defer w.release()
	if s.peeked == nil || !s.peeked.ok {
		panic("plugin: partial consume without a peeked token")
	}
	tok := &s.peeked.tok
	switch tok.Kind {
	case parser.Word:
		rest := skipRunes(tok.Text, n)
		if rest == "" {
			s.consume(src)
			return
		}
		tok.Text = rest
	case parser.Whitespace:
		if n >= tok.Count {
			s.consume(src)
			return
		}
		tok.Count -= n
		tok.Text = skipRunes(tok.Text, n)
	default:
		panic(fmt.Sprintf("plugin: cannot partially consume a %s token", tok.Kind))
	}
}

func skipRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}

// RenderToken lets the plugin rewrite tok just before it is drawn. It is a
// pass-through while measuring.
func (w *Wrapper) RenderToken(tok parser.Token) (parser.Token, bool) {
	s := w.borrow()
	defer w.release()
	if s.phase != Render {
		return tok, true
	}
	out, ok := s.lookahead.RenderToken(tok)
	if !ok {
		return tok, false
	}
	if out.Kind != tok.Kind {
		return tok, true
	}
	return out, true
}

// PostRender forwards to the plugin. Whitespace is reported as spaces.
func (w *Wrapper) PostRender(target Target, st style.Style, text string, bounds image.Rectangle) error {
	s := w.borrow()
	defer w.release()
	return s.lookahead.PostRender(target, st, text, bounds)
}

// WhitespaceText is the text PostRender receives for a whitespace run.
func WhitespaceText(count int) string { return strings.Repeat(" ", count) }

// OnStartRender resets cached lookahead and lets the plugin adjust ctx.
func (w *Wrapper) OnStartRender(ctx *RenderContext) {
	s := w.borrow()
	defer w.release()
	s.peeked = nil
	s.plugin.OnStartRender(ctx)
	s.lookahead = s.plugin.Clone()
}

func (w *Wrapper) OnRenderingFinished() {
	s := w.borrow()
	defer w.release()
	s.plugin.OnRenderingFinished()
}
