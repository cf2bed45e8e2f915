package layout

import (
	"fmt"
	"strings"

	"wbrowse/pkg/html"
	"wbrowse/pkg/text"
)

// ApplyTag returns the style in effect after tag, and whether the tag ends
// the current line. Unknown tags leave both unchanged. Size deltas are not
// clamped.
func ApplyTag(st text.Style, tag string) (text.Style, Break) {
	switch tag {
	case "i":
		st.Slant = text.Italic
	case "/i":
		st.Slant = text.Roman
	case "b":
		st.Weight = text.Bold
	case "/b":
		st.Weight = text.Normal
	case "small":
		st.Size -= 2
	case "/small":
		st.Size += 2
	case "big":
		st.Size += 4
	case "/big":
		st.Size -= 4
	case "br":
		return st, LineBreak
	case "/p":
		return st, ParagraphBreak
	}
	return st, NoBreak
}

// LayoutEngine places words into lines. The style is not engine state: it
// is passed into and returned from each step.
type LayoutEngine struct {
	width    float64
	measurer text.Measurer
	opts     Options

	cursorX float64
	cursorY float64
	line    []lineItem
	entries []Entry
}

func NewLayoutEngine(width float64, measurer text.Measurer, opts Options) *LayoutEngine {
	return &LayoutEngine{
		width:    width,
		measurer: measurer,
		opts:     opts,
	}
}

// Layout produces the display list for tokens. Entries come out in reading
// order: line by line from the top, left to right within a line.
func (le *LayoutEngine) Layout(tokens []html.Token) ([]Entry, error) {
	le.cursorX = le.opts.HStep
	le.cursorY = le.opts.VStep
	le.line = le.line[:0]
	le.entries = make([]Entry, 0)

	style := text.DefaultStyle(le.opts.FontSize)
	for _, tok := range tokens {
		var err error
		style, err = le.Step(style, tok)
		if err != nil {
			return nil, err
		}
	}
	if err := le.flush(); err != nil {
		return nil, err
	}
	return le.entries, nil
}

// Step consumes one token under style and returns the style for the next token.
func (le *LayoutEngine) Step(style text.Style, tok html.Token) (text.Style, error) {
	if tok.Kind == html.TextToken {
		return style, le.text(style, tok.Text)
	}
	next, brk := ApplyTag(style, tok.Tag)
	switch brk {
	case LineBreak:
		return next, le.flush()
	case ParagraphBreak:
		if err := le.flush(); err != nil {
			return next, err
		}
		le.cursorY += le.opts.VStep
	}
	return next, nil
}

func (le *LayoutEngine) text(style text.Style, content string) error {
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}
	metrics, err := le.measurer.Metrics(style)
	if err != nil {
		return fmt.Errorf("layout: metrics for %s: %w", style, err)
	}
	space, err := le.measurer.Measure(" ", style)
	if err != nil {
		return fmt.Errorf("layout: measuring space in %s: %w", style, err)
	}
	font := text.Font{Style: style, Metrics: metrics}

	for _, word := range words {
		w, err := le.measurer.Measure(word, style)
		if err != nil {
			return fmt.Errorf("layout: measuring %q in %s: %w", word, style, err)
		}
		// Break before a word that would overflow; words are never split.
		if le.cursorX+w > le.width-le.opts.HStep {
			if err := le.flush(); err != nil {
				return err
			}
		}
		le.line = append(le.line, lineItem{x: le.cursorX, word: word, font: font})
		le.cursorX += w + space
	}
	return nil
}

// flush emits the buffered line with every word sitting on one shared
// baseline, then moves the cursor below it.
func (le *LayoutEngine) flush() error {
	if len(le.line) == 0 {
		return nil
	}
	maxAscent, maxDescent := 0.0, 0.0
	for _, item := range le.line {
		maxAscent = max(maxAscent, item.font.Metrics.Ascent)
		maxDescent = max(maxDescent, item.font.Metrics.Descent)
	}

	baseline := le.cursorY + le.opts.LineHeight*maxAscent
	for _, item := range le.line {
		le.entries = append(le.entries, Entry{
			X:    item.x,
			Y:    baseline - item.font.Metrics.Ascent,
			Word: item.word,
			Font: item.font,
		})
	}

	le.cursorY = baseline + le.opts.LineHeight*maxDescent
	le.cursorX = le.opts.HStep
	le.line = le.line[:0]
	return nil
}

// Layout lays out tokens in a page width wide.
func Layout(tokens []html.Token, width float64, measurer text.Measurer, opts Options) ([]Entry, error) {
	return NewLayoutEngine(width, measurer, opts).Layout(tokens)
}

// LayoutTree lays out the pre-order token stream of tree.
func LayoutTree(tree *html.Tree, width float64, measurer text.Measurer, opts Options) ([]Entry, error) {
	return Layout(tree.Tokens(), width, measurer, opts)
}

// Height returns the bottom edge of the lowest entry, or 0 for an empty list.
func Height(entries []Entry) float64 {
	h := 0.0
	for _, e := range entries {
		h = max(h, e.Bottom())
	}
	return h
}
