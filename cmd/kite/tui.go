package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	kerrors "github.com/vango-dev/kite/internal/errors"
	"github.com/vango-dev/kite/internal/server"
	"github.com/vango-dev/kite/internal/tui"
)

func tuiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the quote demo in the terminal",
		Long: `Run the quote page in the terminal. Logs are discarded while the
screen is in use.

Keys: tab/shift+tab move between buttons, enter presses, r refreshes, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return kerrors.New("K201")
			}
			cfg, logger, err := opts.setup(io.Discard)
			if err != nil {
				return err
			}
			st, err := server.Assemble(cfg, logger)
			if err != nil {
				return err
			}

			host := st.NewHost()
			defer host.Close()
			host.Mount(nil, st.App.Page, nil)

			return tui.Run(cmd.Context(), host, tui.WithTitle(cfg.Name))
		},
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
