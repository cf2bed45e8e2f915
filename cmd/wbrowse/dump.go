package main

import (
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"wbrowse/pkg/html"
	"wbrowse/pkg/layout"
)

func newLayoutCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "layout <url>",
		Short: "Print the display list of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			s := a.newSession()
			defer s.close()

			if err := s.browser.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writeDisplayList(cmd.OutOrStdout(), s.browser.DisplayList(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or pretty")
	return cmd
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "pretty":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json or pretty)", format)
}

func writeDisplayList(w io.Writer, entries []layout.Entry, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding display list: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "pretty":
		_, err := pp.Fprintln(w, entries)
		return err
	default:
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, e); err != nil {
				return err
			}
		}
		return nil
	}
}

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <url>",
		Short: "Print the token stream of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tok := html.NewTokenizer(body)
			for {
				t, ok := tok.Next()
				if !ok {
					return nil
				}
				fmt.Fprintln(out, t)
			}
		},
	}
}

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <url>",
		Short: "Print the document tree of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return html.Parse(body).Dump(cmd.OutOrStdout())
		},
	}
}
