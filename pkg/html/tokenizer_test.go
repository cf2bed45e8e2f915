package html

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer_PlainText(t *testing.T) {
	for _, input := range []string{"hello", "  spaced   out\n", "a & b; c"} {
		tokens := Tokenize(input)
		require.Len(t, tokens, 1, "input %q", input)
		assert.Equal(t, Text(input), tokens[0])
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize(""))
}

func TestTokenizer_CompleteSequence(t *testing.T) {
	got := Tokenize("<b>x</b>")
	want := []Token{Tag("b"), Text("x"), Tag("/b")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_RawTagContent(t *testing.T) {
	got := Tokenize(`<a href="x">link</a>`)
	want := []Token{Tag(`a href="x"`), Text("link"), Tag("/a")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_NoEntityDecoding(t *testing.T) {
	tokens := Tokenize("a &lt; b")
	require.Len(t, tokens, 1)
	assert.Equal(t, "a &lt; b", tokens[0].Text)
}

func TestTokenizer_EmptyTag(t *testing.T) {
	got := Tokenize("x<>y")
	want := []Token{Text("x"), Tag(""), Text("y")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_UnterminatedTagDropped(t *testing.T) {
	got := Tokenize("Hello <b")
	want := []Token{Text("Hello ")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_StrayCloseBracket(t *testing.T) {
	got := Tokenize("a>b")
	want := []Token{Tag("a"), Text("b")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_NestedOpenBracket(t *testing.T) {
	got := Tokenize("<a<b>c")
	want := []Token{Tag("ab"), Text("c")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_Streaming(t *testing.T) {
	tokenizer := NewTokenizer("<p>Hi</p>")
	tok, ok := tokenizer.Next()
	require.True(t, ok)
	assert.Equal(t, Tag("p"), tok)

	tok, ok = tokenizer.Next()
	require.True(t, ok)
	assert.Equal(t, Text("Hi"), tok)

	tok, ok = tokenizer.Next()
	require.True(t, ok)
	assert.True(t, tok.IsEndTag())

	_, ok = tokenizer.Next()
	assert.False(t, ok)
}

func TestToken_String(t *testing.T) {
	assert.Equal(t, "<b>", Tag("b").String())
	assert.Equal(t, `"x y"`, Text("x y").String())
}
