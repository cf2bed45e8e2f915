package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"wbrowse/pkg/layout"
	"wbrowse/pkg/render"
	"wbrowse/pkg/resource"
	"wbrowse/pkg/viewport"
)

// ErrSuperseded is returned by a load that finished after a later load
// started. Its result is discarded.
var ErrSuperseded = errors.New("load superseded")

// Browser is a single tab: the current document's display list and the
// viewport scrolled over it. Loads may run on another goroutine than
// painting and scrolling.
type Browser struct {
	fetcher  resource.Fetcher
	renderer resource.Renderer
	logger   *zap.Logger

	mu      sync.Mutex
	loads   uint64
	url     string
	entries []layout.Entry
	view    *viewport.Viewport
}

func New(fetcher resource.Fetcher, renderer resource.Renderer, view *viewport.Viewport, logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Browser{
		fetcher:  fetcher,
		renderer: renderer,
		logger:   logger,
		entries:  make([]layout.Entry, 0),
		view:     view,
	}
}

// Load fetches locator and replaces the display list. On any failure the
// previous display list stays in place and the error is returned. Only the
// most recently started load may replace the display list.
func (b *Browser) Load(ctx context.Context, locator string) error {
	b.mu.Lock()
	b.loads++
	seq := b.loads
	width := b.view.Width
	b.mu.Unlock()

	body, err := b.fetcher.Fetch(ctx, locator)
	if err != nil {
		b.logger.Warn("load failed", zap.String("url", locator), zap.Error(err))
		return fmt.Errorf("loading %s: %w", locator, err)
	}
	entries, err := b.renderer.Render(body, width)
	if err != nil {
		b.logger.Warn("layout failed", zap.String("url", locator), zap.Error(err))
		return fmt.Errorf("laying out %s: %w", locator, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.loads {
		b.logger.Debug("dropped stale load", zap.String("url", locator))
		return fmt.Errorf("loading %s: %w", locator, ErrSuperseded)
	}
	b.url = locator
	b.entries = entries
	b.view.Reset()
	b.logger.Info("loaded page", zap.String("url", locator), zap.Int("words", len(entries)))
	return nil
}

// Handle applies a scroll message and reports whether a repaint is needed.
func (b *Browser) Handle(msg viewport.Msg) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Handle(msg)
}

// ScrollDown and ScrollUp move by the viewport's fixed step.
func (b *Browser) ScrollDown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Handle(b.view.Down())
}

func (b *Browser) ScrollUp() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Handle(b.view.Up())
}

// Paint draws the visible part of the current page with r.
func (b *Browser) Paint(r *render.Renderer) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return r.Render(b.entries, b.view.Offset)
}

// DisplayList returns a copy of the current display list.
func (b *Browser) DisplayList() []layout.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]layout.Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Browser) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url
}

func (b *Browser) Offset() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Offset
}
