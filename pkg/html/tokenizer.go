package html

import (
	"strconv"
	"strings"
)

type TokenKind int

const (
	TextToken TokenKind = iota
	TagToken
)

// Token is either a run of literal text or the raw interior of a <...> directive.
// Tag tokens are not parsed: "a href=x" is a valid tag name.
type Token struct {
	Kind TokenKind
	Text string
	Tag  string
}

// Text returns a text token.
func Text(s string) Token {
	return Token{Kind: TextToken, Text: s}
}

// Tag returns a tag token carrying the raw tag content.
func Tag(s string) Token {
	return Token{Kind: TagToken, Tag: s}
}

// IsEndTag reports whether the token is a tag starting with '/'.
func (t Token) IsEndTag() bool {
	return t.Kind == TagToken && strings.HasPrefix(t.Tag, "/")
}

func (t Token) String() string {
	if t.Kind == TagToken {
		return "<" + t.Tag + ">"
	}
	return strconv.Quote(t.Text)
}

type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(body string) *Tokenizer {
	return &Tokenizer{input: body, pos: 0}
}

// Next returns the next token, or false once the input is exhausted.
// Content of a tag left open at end of input is dropped.
func (t *Tokenizer) Next() (Token, bool) {
	var buf strings.Builder
	inTag := false
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch {
		case c == '<':
			if !inTag && buf.Len() > 0 {
				// Leave '<' unread so the next call opens the tag.
				return Text(buf.String()), true
			}
			// A '<' inside an open tag is dropped.
			inTag = true
			t.pos++
		case c == '>':
			t.pos++
			return Tag(buf.String()), true
		default:
			buf.WriteByte(c)
			t.pos++
		}
	}
	if !inTag && buf.Len() > 0 {
		return Text(buf.String()), true
	}
	return Token{}, false
}

// Tokenize splits body into text and tag tokens. It never fails: malformed
// markup only shifts token boundaries.
func Tokenize(body string) []Token {
	tokenizer := NewTokenizer(body)
	tokens := make([]Token, 0)
	for {
		tok, ok := tokenizer.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
