package text

import "fmt"

type Weight int

const (
	Normal Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "normal"
}

func (w Weight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

type Slant int

const (
	Roman Slant = iota
	Italic
)

func (s Slant) String() string {
	if s == Italic {
		return "italic"
	}
	return "roman"
}

func (s Slant) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Style selects a face: weight, slant and size in pixels.
// It is a comparable value and is used as a cache key.
type Style struct {
	Weight Weight `json:"weight"`
	Slant  Slant  `json:"slant"`
	Size   int    `json:"size"`
}

// DefaultStyle returns a normal roman style of the given size.
func DefaultStyle(size int) Style {
	return Style{Weight: Normal, Slant: Roman, Size: size}
}

func (s Style) String() string {
	return fmt.Sprintf("%dpx %s %s", s.Size, s.Weight, s.Slant)
}

// Metrics are the vertical measurements of a face, in pixels.
type Metrics struct {
	Ascent    float64 `json:"ascent"`
	Descent   float64 `json:"descent"`
	Linespace float64 `json:"linespace"`
}

// Font is a resolved font descriptor: the style plus its metrics.
type Font struct {
	Style   Style   `json:"style"`
	Metrics Metrics `json:"metrics"`
}
