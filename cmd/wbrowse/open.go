package main

import (
	"context"
	"errors"
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"wbrowse/pkg/browser"
	"wbrowse/pkg/render"
)

// pageView shows the painted page and turns mouse wheel movement into
// scroll requests.
type pageView struct {
	widget.BaseWidget
	img      *canvas.Image
	onScroll func(down bool)
}

func newPageView(img *canvas.Image, onScroll func(down bool)) *pageView {
	p := &pageView{img: img, onScroll: onScroll}
	p.ExtendBaseWidget(p)
	return p
}

func (p *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.img)
}

func (p *pageView) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	p.onScroll(ev.Scrolled.DY < 0)
}

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open [url]",
		Short: "Open a browser window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.newSession()
			defer s.close()

			width, height := a.cfg.Window.Width, a.cfg.Window.Height
			target := image.NewRGBA(image.Rect(0, 0, width, height))
			painter := render.NewRendererForImage(target, s.paintFonts)
			painter.SetLogger(a.logger.Named("render"))
			painter.Render(nil, 0)

			fyneApp := app.New()
			w := fyneApp.NewWindow("wbrowse")

			img := canvas.NewImageFromImage(target)
			img.FillMode = canvas.ImageFillOriginal
			img.SetMinSize(fyne.NewSize(float32(width), float32(height)))

			// repaint must run on the UI goroutine.
			repaint := func() {
				s.browser.Paint(painter)
				img.Refresh()
			}
			scroll := func(down bool) {
				var changed bool
				if down {
					changed = s.browser.ScrollDown()
				} else {
					changed = s.browser.ScrollUp()
				}
				if changed {
					repaint()
				}
			}

			status := widget.NewLabel("Enter a URL and press Enter")
			urlEntry := widget.NewEntry()
			urlEntry.SetPlaceHolder("https://example.org/")

			// cancelLoad stops the in-flight load. Only touched on the UI goroutine.
			cancelLoad := context.CancelFunc(func() {})
			load := func(url string) {
				cancelLoad()
				ctx, cancel := context.WithCancel(context.Background())
				cancelLoad = cancel
				status.SetText("Loading " + url + "...")
				go func() {
					err := s.browser.Load(ctx, url)
					fyne.Do(func() {
						switch {
						case errors.Is(err, browser.ErrSuperseded), ctx.Err() != nil:
							// A newer load owns the status line.
						case err != nil:
							// An earlier load may have committed since the last paint.
							repaint()
							status.SetText("Error: " + err.Error())
						default:
							repaint()
							status.SetText(url)
							w.SetTitle(fmt.Sprintf("wbrowse - %s", url))
							w.Canvas().Unfocus()
						}
					})
				}()
			}
			urlEntry.OnSubmitted = load

			w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
				switch ev.Name {
				case fyne.KeyDown:
					scroll(true)
				case fyne.KeyUp:
					scroll(false)
				}
			})

			page := newPageView(img, scroll)
			content := container.NewBorder(urlEntry, status, nil, nil, page)
			w.SetContent(content)
			w.Resize(fyne.NewSize(float32(width), float32(height)+80))

			if len(args) == 1 {
				urlEntry.SetText(args[0])
				load(args[0])
			} else {
				w.Canvas().Focus(urlEntry)
			}

			w.ShowAndRun()
			cancelLoad()
			return nil
		},
	}
}
