package resource

import (
	"go.uber.org/zap"

	"wbrowse/pkg/html"
	"wbrowse/pkg/layout"
	"wbrowse/pkg/text"
)

// Renderer turns document text into a display list for a page width.
type Renderer interface {
	Render(body string, width float64) ([]layout.Entry, error)
}

// Pipeline tokenizes, optionally builds a tree, and lays out a document.
// Each call is an independent pass with no state carried between documents.
type Pipeline struct {
	fonts   text.Measurer
	opts    layout.Options
	useTree bool
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline measuring with fonts. When useTree is set
// the token stream goes through the tree builder before layout.
func NewPipeline(fonts text.Measurer, opts layout.Options, useTree bool) *Pipeline {
	return &Pipeline{fonts: fonts, opts: opts, useTree: useTree, logger: zap.NewNop()}
}

func (p *Pipeline) SetLogger(logger *zap.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *Pipeline) Render(body string, width float64) ([]layout.Entry, error) {
	tokens := html.Tokenize(body)
	if p.useTree {
		tree := html.Build(tokens)
		p.logger.Debug("built tree", zap.Int("nodes", tree.Len()))
		tokens = tree.Tokens()
	}

	entries, err := layout.Layout(tokens, width, p.fonts, p.opts)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("laid out document",
		zap.Int("tokens", len(tokens)),
		zap.Int("entries", len(entries)),
		zap.Float64("height", layout.Height(entries)))
	return entries, nil
}
