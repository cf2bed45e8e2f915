package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"wbrowse/pkg/layout"
	"wbrowse/pkg/text"
	"wbrowse/pkg/viewport"
)

// FaceSource supplies the face to draw a style with.
type FaceSource interface {
	Face(st text.Style) (font.Face, error)
}

type Renderer struct {
	context *gg.Context
	fonts   FaceSource
	logger  *zap.Logger
}

func NewRenderer(width, height int, fonts FaceSource) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), fonts: fonts, logger: zap.NewNop()}
}

// NewRendererForImage paints directly into target.
func NewRendererForImage(target *image.RGBA, fonts FaceSource) *Renderer {
	return &Renderer{context: gg.NewContextForRGBA(target), fonts: fonts, logger: zap.NewNop()}
}

func (r *Renderer) SetLogger(logger *zap.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Render clears the canvas and draws the entries visible at offset. It
// returns the number of entries drawn.
func (r *Renderer) Render(entries []layout.Entry, offset float64) int {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	r.context.SetRGB(0, 0, 0)

	height := float64(r.context.Height())
	drawn := 0
	for _, e := range viewport.Visible(entries, offset, height) {
		if err := r.drawEntry(e, offset); err != nil {
			// Skip the word; the rest of the page still paints.
			r.logger.Debug("skipping entry", zap.String("word", e.Word), zap.Error(err))
			continue
		}
		drawn++
	}
	return drawn
}

func (r *Renderer) drawEntry(e layout.Entry, offset float64) error {
	face, err := r.fonts.Face(e.Font.Style)
	if err != nil {
		return err
	}
	r.context.SetFontFace(face)
	// Entries are anchored at their top-left corner; gg draws on the baseline.
	r.context.DrawString(e.Word, e.X, e.Y-offset+e.Font.Metrics.Ascent)
	return nil
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	if err := r.context.SavePNG(filename); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}
