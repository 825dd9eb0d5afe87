package main

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/spf13/cobra"

	kerrors "github.com/vango-dev/kite/internal/errors"
	"github.com/vango-dev/kite/internal/live"
	"github.com/vango-dev/kite/internal/server"
	"github.com/vango-dev/kite/pkg/kite"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		component string
		timeout   time.Duration
		page      bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a component once and print its HTML",
		Long: `Mount a component, wait until every instance is waiting for input or
finished, and print the document.

Components: page, random, refreshable

Examples:
  kite render
  kite render --component=random
  kite render --page > quote.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st, err := server.Assemble(cfg, logger)
			if err != nil {
				return err
			}

			var def *kite.Definition
			switch component {
			case "page":
				def = st.App.Page
			case "random":
				def = st.App.RandomQuote
			case "refreshable":
				def = st.App.RefreshableQuote
			default:
				return kerrors.New("K200").
					WithDetailf("--component: unknown component %q", component).
					WithSuggestion("Use page, random or refreshable")
			}

			host := st.NewHost()
			defer host.Close()
			host.Mount(nil, def, nil)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := host.Settle(ctx); err != nil {
				return fmt.Errorf("render: components did not settle within %s: %w", timeout, err)
			}

			html := host.HTML()
			if !page {
				fmt.Fprintln(cmd.OutOrStdout(), html)
				return nil
			}
			return live.WritePage(cmd.OutOrStdout(), live.PageData{
				Title: cfg.Name,
				Body:  template.HTML(html),
			})
		},
	}

	cmd.Flags().StringVar(&component, "component", "page", "Component to render")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for components to settle")
	cmd.Flags().BoolVar(&page, "page", false, "Wrap the output in the full page shell")

	return cmd
}
