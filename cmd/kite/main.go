// Command kite runs the quote demo on the kite component runtime: as a web
// server with a live browser bridge, as a terminal UI, or as a one-shot
// HTML render.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kerrors "github.com/vango-dev/kite/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦╔═┬┌┬┐┌─┐
  ╠╩╗│ │ ├┤
  ╩ ╩┴ ┴ └─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ke *kerrors.KiteError
		if errors.As(err, &ke) {
			fmt.Fprint(os.Stderr, ke.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "kite",
		Short: "Asynchronous components for Go",
		Long: `kite runs components as ordinary Go functions that render, wait for
events and await results, one goroutine per component.

This binary hosts the quote demo:

  • serve   web page kept live over a WebSocket
  • tui     the same components in the terminal
  • render  settle once and print the HTML`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: kite.json or kite.yaml in the working directory or a parent)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(opts),
		renderCmd(opts),
		tuiCmd(opts),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), banner)
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}
