package main

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wbrowse/pkg/layout"
	"wbrowse/pkg/render"
)

func newShowCmd(a *app) *cobra.Command {
	var output string
	var full bool
	var scroll int

	cmd := &cobra.Command{
		Use:   "show <url>",
		Short: "Render a page into a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.newSession()
			defer s.close()

			if err := s.browser.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			for i := 0; i < scroll; i++ {
				s.browser.ScrollDown()
			}

			width, height := a.cfg.Window.Width, a.cfg.Window.Height
			entries := s.browser.DisplayList()
			if full {
				// Page height plus the bottom margin, never shorter than the window.
				pageHeight := int(math.Ceil(layout.Height(entries) + a.cfg.Layout.VStep))
				if pageHeight > height {
					height = pageHeight
				}
			}

			r := render.NewRenderer(width, height, s.paintFonts)
			r.SetLogger(a.logger.Named("render"))
			drawn := s.browser.Paint(r)
			if err := r.SavePNG(output); err != nil {
				return err
			}

			a.logger.Info("saved page image",
				zap.String("file", output),
				zap.Int("words", drawn),
				zap.String("size", fmt.Sprintf("%dx%d", width, height)))
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s to %s (%dx%d, %s words drawn)\n",
				args[0], output, width, height, humanize.Comma(int64(drawn)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "output.png", "output PNG file path")
	cmd.Flags().BoolVar(&full, "full", false, "render the whole page instead of the first viewport")
	cmd.Flags().IntVar(&scroll, "scroll", 0, "scroll down this many steps before painting")
	return cmd
}
