package main

import (
	"fmt"

	"github.com/spf13/cobra"

	contentbot "github.com/goliatone/go-content-bot"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		dir      string
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Import front matter documents into the record store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			cfg.Features.Seed = true
			if len(args) == 1 {
				cfg.Seed.Dir = args[0]
			} else if dir != "" {
				cfg.Seed.Dir = dir
			}
			if cmd.Flags().Changed("defaults") {
				cfg.Seed.Defaults = defaults
			}

			module, err := contentbot.New(cfg)
			if err != nil {
				return err
			}
			defer module.Close()

			result, err := module.Seed(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d, skipped %d, failed %d\n", len(result.Created), len(result.Skipped), len(result.Errors))
			for _, docErr := range result.Errors {
				fmt.Fprintf(out, "  %v\n", docErr)
			}
			return result.Err()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "seed directory (overrides seed.dir)")
	cmd.Flags().BoolVar(&defaults, "defaults", true, "import the built-in default records")
	return cmd
}
