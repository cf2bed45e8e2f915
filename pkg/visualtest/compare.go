package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest channel difference seen, 0-255
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance is the largest per-channel difference (0-255) still counted as equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any expected pixel within this many pixels.
	FuzzyRadius int

	// MaxDifferentPercent accepts the images when at most this share of pixels differ.
	MaxDifferentPercent float64

	// DiffImagePath, when set, receives an image with differing pixels in red.
	DiffImagePath string
}

func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// Compare compares two images pixel by pixel. Both images are read from
// their own bounds' origin, so sub-images of different positions compare.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	ab, eb := actual.Bounds(), expected.Bounds()
	if ab.Dx() != eb.Dx() || ab.Dy() != eb.Dy() {
		return &CompareResult{}, fmt.Errorf("image sizes differ: actual=%dx%d, expected=%dx%d",
			ab.Dx(), ab.Dy(), eb.Dx(), eb.Dy())
	}

	result := &CompareResult{Match: true, TotalPixels: ab.Dx() * ab.Dy()}

	var diffImg *image.RGBA
	if opts.DiffImagePath != "" {
		diffImg = image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	}

	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			a := actual.At(ab.Min.X+x, ab.Min.Y+y)
			diff := channelDiff(a, expected.At(eb.Min.X+x, eb.Min.Y+y))
			if diff > result.MaxDifference {
				result.MaxDifference = diff
			}

			same := diff <= opts.Tolerance
			if !same && opts.FuzzyRadius > 0 {
				same = fuzzyMatch(a, expected, eb, x, y, opts.FuzzyRadius, opts.Tolerance)
			}
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if diffImg != nil {
				if same {
					gray := color.GrayModel.Convert(a).(color.Gray).Y
					diffImg.Set(x, y, color.RGBA{gray, gray, gray, 255})
				} else {
					diffImg.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		if pct <= opts.MaxDifferentPercent {
			result.Match = true
		}
	}

	if diffImg != nil && !result.Match {
		if err := savePNG(diffImg, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}

// CompareFiles compares two PNG files.
func CompareFiles(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load actual image: %w", err)
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

// fuzzyMatch reports whether a matches any expected pixel within radius of
// (x, y), in coordinates relative to bounds.Min.
func fuzzyMatch(a color.Color, expected image.Image, bounds image.Rectangle, x, y, radius, tolerance int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= bounds.Dx() || ny < 0 || ny >= bounds.Dy() {
				continue
			}
			if channelDiff(a, expected.At(bounds.Min.X+nx, bounds.Min.Y+ny)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func channelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		absInt(int(ar>>8)-int(br>>8)),
		absInt(int(ag>>8)-int(bg>>8)),
		absInt(int(ab>>8)-int(bb>>8)),
		absInt(int(aa>>8)-int(ba>>8)),
	)
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
