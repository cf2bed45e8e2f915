package viewport

import "wbrowse/pkg/layout"

// Msg is an input event that moves the scroll offset.
type Msg interface {
	apply(offset float64) float64
}

type ScrollDown struct {
	Step float64
}

func (m ScrollDown) apply(offset float64) float64 {
	return offset + m.Step
}

type ScrollUp struct {
	Step float64
}

func (m ScrollUp) apply(offset float64) float64 {
	return offset - m.Step
}

// Update returns the scroll offset after msg. The offset never goes above
// the top of the page.
func Update(offset float64, msg Msg) float64 {
	return max(msg.apply(offset), 0)
}

// Visible returns the entries that intersect the window
// [offset, offset+height]. The input slice is not modified.
func Visible(entries []layout.Entry, offset, height float64) []layout.Entry {
	out := make([]layout.Entry, 0)
	for _, e := range entries {
		if e.Y > offset+height {
			continue
		}
		if e.Y+e.Font.Metrics.Linespace < offset {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Viewport is the presentation state of a window onto a display list.
type Viewport struct {
	Width  float64
	Height float64
	Offset float64
	Step   float64
}

func New(width, height, step float64) *Viewport {
	return &Viewport{Width: width, Height: height, Step: step}
}

// Down and Up build the scroll messages for this viewport's step.
func (v *Viewport) Down() Msg { return ScrollDown{Step: v.Step} }
func (v *Viewport) Up() Msg   { return ScrollUp{Step: v.Step} }

// Handle applies msg and reports whether the offset changed.
func (v *Viewport) Handle(msg Msg) bool {
	next := Update(v.Offset, msg)
	changed := next != v.Offset
	v.Offset = next
	return changed
}

// Reset scrolls back to the top, as after loading a new page.
func (v *Viewport) Reset() {
	v.Offset = 0
}

// Visible returns the slice of entries shown at the current offset.
func (v *Viewport) Visible(entries []layout.Entry) []layout.Entry {
	return Visible(entries, v.Offset, v.Height)
}
