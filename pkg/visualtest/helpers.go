package visualtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"wbrowse/pkg/layout"
	"wbrowse/pkg/render"
	"wbrowse/pkg/resource"
	"wbrowse/pkg/text"
)

// Page describes one rendering of a document.
type Page struct {
	Body    string
	Width   int
	Height  int
	Offset  float64
	UseTree bool
	Options layout.Options
}

// RenderPage lays out and paints a document with the bundled fonts.
func RenderPage(p Page) (image.Image, error) {
	opts := p.Options
	if opts == (layout.Options{}) {
		opts = layout.DefaultOptions()
	}
	fonts := text.NewFaceCache(text.FontConfig{})
	entries, err := resource.NewPipeline(fonts, opts, p.UseTree).Render(p.Body, float64(p.Width))
	if err != nil {
		return nil, fmt.Errorf("layout error: %w", err)
	}

	r := render.NewRenderer(p.Width, p.Height, fonts)
	r.Render(entries, p.Offset)
	return r.Image(), nil
}

// RenderPageToFile renders a document into a PNG file, creating the
// output directory when needed.
func RenderPageToFile(p Page, outputPath string) error {
	img, err := RenderPage(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := savePNG(img, outputPath); err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	return nil
}

// Window returns the rows [top, top+height) of img.
func Window(img image.Image, top, height int) image.Image {
	b := img.Bounds()
	rect := image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+top+height)
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.Set(x, y, img.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out
}
