package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kylerisse/uptui/pkg/display"
	"github.com/kylerisse/uptui/pkg/probe"
)

func newCheckCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe every monitor once and print the results",
		Long: `Probe every configured monitor once and print the results as a table,
or as JSON with --json. The exit status is 0 whatever the probe outcomes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := opts.logger()
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, _ := opts.loadConfig(cmd, logger)

			engine, err := probe.New(probe.WithLogger(logger), probe.WithConcurrency(cfg.Concurrency))
			if err != nil {
				return err
			}

			results := engine.RunChecks(cmd.Context(), cfg.Specs())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return display.WriteTable(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON.")

	return cmd
}
