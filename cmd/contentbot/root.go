package main

import (
	"github.com/spf13/cobra"

	contentbot "github.com/goliatone/go-content-bot"
)

type app struct {
	configPath string
	cfg        contentbot.Config
}

// newRootCommand builds the CLI. Configuration is read once, before any
// subcommand runs, from --config and CONTENTBOT_* variables.
func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "contentbot",
		Short:         "Chat bot content administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := contentbot.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML, JSON or TOML config file")

	root.AddCommand(
		newConsoleCommand(a),
		newSeedCommand(a),
		newListCommand(a),
	)
	return root
}
