package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/kite/internal/server"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		address  string
		failEach int
		down     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quote demo over HTTP",
		Long: `Serve the quote page, keeping it live over a WebSocket.

Routes:
  /           live page
  /live       WebSocket bridge
  /api/quote  quote API
  /metrics    Prometheus metrics
  /healthz    liveness probe

Examples:
  kite serve
  kite serve --address=:8080
  kite serve --fail-every=3    # every third quote request fails`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}
			if cmd.Flags().Changed("fail-every") {
				cfg.Quotes.FailEvery = failEach
			}
			if down {
				cfg.Quotes.Down = true
			}

			st, err := server.Assemble(cfg, logger)
			if err != nil {
				return err
			}

			printBanner(cmd)
			success(cmd, "Serving on http://%s", cfg.Server.Address)
			info(cmd, "Quotes from %s", st.Source.Name())
			return server.New(st).Run()
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Address to listen on (default from config)")
	cmd.Flags().IntVar(&failEach, "fail-every", 0, "Fail every Nth quote request")
	cmd.Flags().BoolVar(&down, "down", false, "Start with the quote API reporting \"network down\"")

	return cmd
}
