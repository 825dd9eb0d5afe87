package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/kite/internal/config"
	kerrors "github.com/vango-dev/kite/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		dir    string
		asYAML bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write kite.json (or kite.yaml with --yaml) with the default settings.

Examples:
  kite init
  kite init --yaml --dir=./deploy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(dir) && !force {
				return kerrors.New("K200").
					WithDetail("a config file already exists in " + dir).
					WithSuggestion("Pass --force to overwrite it")
			}
			name := config.ConfigFileName
			if asYAML {
				name = config.YAMLConfigFileName
			}
			path := filepath.Join(dir, name)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd, "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write into")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Write YAML instead of JSON")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")

	return cmd
}
