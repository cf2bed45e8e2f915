package text

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidSize is returned when a style asks for a font size that
// cannot be rendered.
var ErrInvalidSize = errors.New("invalid font size")

// Measurer is the font-measurement capability used by layout. Results
// must be deterministic for a given style.
type Measurer interface {
	Measure(s string, st Style) (float64, error)
	Metrics(st Style) (Metrics, error)
}

// FontConfig holds paths to font files used for text measurement and rendering.
// Empty paths fall back to the Go fonts bundled with x/image.
type FontConfig struct {
	Regular    string `mapstructure:"regular"`
	Bold       string `mapstructure:"bold"`
	Italic     string `mapstructure:"italic"`
	BoldItalic string `mapstructure:"bold_italic"`
}

// FontPath returns the configured font path for the given style combination,
// or "" when none is configured.
func (fc FontConfig) FontPath(bold, italic bool) string {
	if bold && italic {
		return fc.BoldItalic
	}
	if bold {
		return fc.Bold
	}
	if italic {
		return fc.Italic
	}
	return fc.Regular
}

func bundledFont(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// FaceCache loads one truetype face per style and measures text with gg.
// Measure and Metrics are safe for concurrent use. Faces returned by Face
// are not, so a painter on another goroutine needs its own cache.
type FaceCache struct {
	config FontConfig

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[Style]font.Face
	dc    *gg.Context
}

func NewFaceCache(config FontConfig) *FaceCache {
	return &FaceCache{
		config: config,
		fonts:  make(map[string]*truetype.Font),
		faces:  make(map[Style]font.Face),
		// Measurement only; the context is never painted.
		dc: gg.NewContext(1, 1),
	}
}

// Face returns the face for st, loading it on first use.
func (c *FaceCache) Face(st Style) (font.Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.face(st)
}

func (c *FaceCache) face(st Style) (font.Face, error) {
	if st.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, st.Size)
	}
	if face, ok := c.faces[st]; ok {
		return face, nil
	}
	f, err := c.font(st.Weight == Bold, st.Slant == Italic)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: float64(st.Size)})
	c.faces[st] = face
	return face, nil
}

func (c *FaceCache) font(bold, italic bool) (*truetype.Font, error) {
	path := c.config.FontPath(bold, italic)
	key := path
	if key == "" {
		key = fmt.Sprintf("bundled:%t:%t", bold, italic)
	}
	if f, ok := c.fonts[key]; ok {
		return f, nil
	}

	data := bundledFont(bold, italic)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading font %s: %w", path, err)
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", key, err)
	}
	c.fonts[key] = f
	return f, nil
}

// Measure returns the advance width of s in pixels.
func (c *FaceCache) Measure(s string, st Style) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	face, err := c.face(st)
	if err != nil {
		return 0, err
	}
	c.dc.SetFontFace(face)
	w, _ := c.dc.MeasureString(s)
	return w, nil
}

// Metrics returns the vertical metrics of the face for st.
func (c *FaceCache) Metrics(st Style) (Metrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	face, err := c.face(st)
	if err != nil {
		return Metrics{}, err
	}
	m := face.Metrics()
	ascent := fromFixed(m.Ascent)
	descent := fromFixed(m.Descent)
	return Metrics{
		Ascent:    ascent,
		Descent:   descent,
		Linespace: ascent + descent,
	}, nil
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
