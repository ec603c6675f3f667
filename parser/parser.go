// Package parser splits text into the tokens the line layout works on. The
// tokenizer is lossless: concatenating the raw span of every token yields the
// input again.
package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/linebox/ansi"
)

const (
	NonBreakingSpace = '\u00A0'
	SoftHyphen       = '\u00AD'
	ZeroWidthSpace   = '\u200B'
)

// HyphenGlyph is drawn in place of a soft hyphen when a line is broken there.
const HyphenGlyph = "-"

type TokenKind int

const (
	NewLine TokenKind = iota
	CarriageReturn
	Whitespace
	Tab
	Word
	Break
	EscapeSequence
)

var kindNames = [...]string{
	NewLine:        "newline",
	CarriageReturn: "carriage-return",
	Whitespace:     "whitespace",
	Tab:            "tab",
	Word:           "word",
	Break:          "break",
	EscapeSequence: "escape",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one unit of input.
type Token struct {
	Kind TokenKind
	// Text 是 Word/Whitespace/Tab/NewLine/CarriageReturn/EscapeSequence 的原文，
	// 对 Break 则是换行时显示的字形。
	Text string
	// Original 仅用于 Break：原文中的软连字符。
	Original string
	// Count 是 Whitespace 中空白字符的个数，零宽空格为 0。
	Count    int
	Sequence ansi.Sequence
}

// WordToken returns a word token.
func WordToken(text string) Token { return Token{Kind: Word, Text: text} }

// WhitespaceToken returns a run of count whitespace characters spanning text.
func WhitespaceToken(count int, text string) Token {
	return Token{Kind: Whitespace, Count: count, Text: text}
}

// BreakToken returns a break opportunity drawn as glyph.
func BreakToken(glyph, original string) Token {
	return Token{Kind: Break, Text: glyph, Original: original}
}

// Raw returns the source span of the token.
func (t Token) Raw() string {
	if t.Kind == Break {
		return t.Original
	}
	return t.Text
}

// Options 控制分词行为。
type Options struct {
	// EscapeSequences enables recognition of inline control sequences.
	EscapeSequences bool
}

// Parser is a cursor over the remaining text. It is a small value: copying
// it yields an independent lookahead.
type Parser struct {
	rest string
	opts Options
}

// Parse returns a parser over text with escape sequence support disabled.
func Parse(text string) Parser { return Parser{rest: text} }

func ParseWithOptions(text string, opts Options) Parser {
	return Parser{rest: text, opts: opts}
}

// Remaining returns the number of unconsumed bytes.
func (p Parser) Remaining() int { return len(p.rest) }

func (p Parser) IsEmpty() bool { return p.rest == "" }

// String returns the unconsumed text.
func (p Parser) String() string { return p.rest }

// Peek returns the next token without consuming it.
func (p Parser) Peek() (Token, bool) { return p.Next() }

// Consume skips n bytes of input. n must not cut a valid multi-byte
// character; invalid bytes count as characters of their own.
func (p *Parser) Consume(n int) {
	if n < 0 || n > len(p.rest) {
		panic(fmt.Sprintf("parser: consume %d bytes of %d", n, len(p.rest)))
	}
	if n < len(p.rest) && splitsRune(p.rest, n) {
		panic(fmt.Sprintf("parser: consume %d splits a character", n))
	}
	p.rest = p.rest[n:]
}

// splitsRune reports whether a valid multi-byte encoding in s spans offset n.
// Stray continuation bytes are single characters of their own.
func splitsRune(s string, n int) bool {
	if utf8.RuneStart(s[n]) {
		return false
	}
	for i := n - 1; i >= 0 && i > n-utf8.UTFMax; i-- {
		if utf8.RuneStart(s[i]) {
			_, size := utf8.DecodeRuneInString(s[i:])
			return i+size > n
		}
	}
	return false
}

// Next returns the next token and advances past it.
func (p *Parser) Next() (Token, bool) {
	if p.rest == "" {
		return Token{}, false
	}
	r, size := utf8.DecodeRuneInString(p.rest)
	switch {
	case r == '\n':
		return p.take(Token{Kind: NewLine}, size), true
	case r == '\r':
		return p.take(Token{Kind: CarriageReturn}, size), true
	case r == '\t':
		return p.take(Token{Kind: Tab}, size), true
	case r == ZeroWidthSpace:
		return p.take(Token{Kind: Whitespace}, size), true
	case r == SoftHyphen:
		tok := p.take(Token{Kind: Break}, size)
		tok.Original, tok.Text = tok.Text, HyphenGlyph
		return tok, true
	case r == ansi.Escape && p.opts.EscapeSequences:
		if seq, n, err := ansi.Parse(p.rest); err == nil {
			return p.take(Token{Kind: EscapeSequence, Sequence: seq}, n), true
		}
		// 无法识别的序列按普通文字处理
		return p.word(size), true
	case isSpace(r):
		return p.whitespace(), true
	default:
		return p.word(size), true
	}
}

func (p *Parser) take(tok Token, n int) Token {
	tok.Text = p.rest[:n]
	p.rest = p.rest[n:]
	return tok
}

// word collects word characters. The first character is always taken so a
// malformed escape still makes progress.
func (p *Parser) word(first int) Token {
	end := first
	for end < len(p.rest) {
		r, size := utf8.DecodeRuneInString(p.rest[end:])
		if !p.isWordChar(r, p.rest[end:]) {
			break
		}
		end += size
	}
	return p.take(Token{Kind: Word}, end)
}

func (p *Parser) whitespace() Token {
	count, end := 0, 0
	for end < len(p.rest) {
		r, size := utf8.DecodeRuneInString(p.rest[end:])
		if !isSpace(r) {
			break
		}
		count++
		end += size
	}
	return p.take(Token{Kind: Whitespace, Count: count}, end)
}

func (p *Parser) isWordChar(r rune, rest string) bool {
	switch r {
	case NonBreakingSpace:
		return true
	case SoftHyphen, ZeroWidthSpace:
		return false
	case ansi.Escape:
		if !p.opts.EscapeSequences {
			return true
		}
		_, _, err := ansi.Parse(rest)
		return err != nil
	}
	return !unicode.IsSpace(r)
}

// isSpace reports whitespace that forms Whitespace tokens; line breaks, tabs
// and the non-breaking space have their own meaning.
func isSpace(r rune) bool {
	switch r {
	case '\n', '\r', '\t', NonBreakingSpace:
		return false
	}
	return unicode.IsSpace(r)
}
