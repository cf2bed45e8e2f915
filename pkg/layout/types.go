package layout

import (
	"fmt"

	"wbrowse/pkg/text"
)

// Entry is one positioned word of the display list. (X, Y) is the top-left
// corner of the word's box.
type Entry struct {
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Word string    `json:"word"`
	Font text.Font `json:"font"`
}

func (e Entry) String() string {
	return fmt.Sprintf("(%.1f, %.1f) %q [%s]", e.X, e.Y, e.Word, e.Font.Style)
}

// Bottom returns the lowest pixel row the entry covers.
func (e Entry) Bottom() float64 {
	return e.Y + e.Font.Metrics.Linespace
}

// Options are the fixed page geometry constants.
type Options struct {
	HStep      float64 `mapstructure:"hstep"`       // left/right margin
	VStep      float64 `mapstructure:"vstep"`       // top margin and paragraph spacing
	FontSize   int     `mapstructure:"font_size"`   // starting size in pixels
	LineHeight float64 `mapstructure:"line_height"` // factor applied to ascent and descent
}

func DefaultOptions() Options {
	return Options{
		HStep:      13,
		VStep:      18,
		FontSize:   16,
		LineHeight: 1.2,
	}
}

// Break is the line-level effect of a tag.
type Break int

const (
	NoBreak Break = iota
	LineBreak
	ParagraphBreak
)

type lineItem struct {
	x    float64
	word string
	font text.Font
}
