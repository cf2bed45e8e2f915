package main

import (
	"context"

	"wbrowse/pkg/browser"
	"wbrowse/pkg/resource"
	"wbrowse/pkg/text"
	"wbrowse/pkg/viewport"
	stdnet "wbrowse/std/net"
)

// session is one configured browser tab. Painting gets its own font cache
// because faces are not safe to share between the load goroutine and the
// UI goroutine.
type session struct {
	paintFonts *text.FaceCache
	fetcher    *resource.DefaultFetcher
	browser    *browser.Browser
	close      func()
}

func (a *app) newSession() *session {
	cfg := a.cfg
	fonts := text.NewFaceCache(cfg.Fonts)

	client := stdnet.NewClient(cfg.Network.Timeout, cfg.Network.UserAgent)
	fetcher := resource.NewFetcher("", client)
	fetcher.SetLogger(a.logger.Named("fetch"))

	pipeline := resource.NewPipeline(fonts, cfg.Layout.Options, cfg.Layout.Tree)
	pipeline.SetLogger(a.logger.Named("layout"))

	view := viewport.New(float64(cfg.Window.Width), float64(cfg.Window.Height), cfg.Window.ScrollStep)
	return &session{
		paintFonts: text.NewFaceCache(cfg.Fonts),
		fetcher:    fetcher,
		browser:    browser.New(fetcher, pipeline, view, a.logger.Named("browser")),
		close:      client.CloseIdleConnections,
	}
}

// fetch returns the decoded document at locator without laying it out.
func (a *app) fetch(ctx context.Context, locator string) (string, error) {
	s := a.newSession()
	defer s.close()
	return s.fetcher.Fetch(ctx, locator)
}
