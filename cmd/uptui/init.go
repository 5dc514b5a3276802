package main

import (
	"github.com/spf13/cobra"

	"github.com/kylerisse/uptui/pkg/config"
)

func newInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteExample(path, force); err != nil {
				return err
			}
			cmd.Printf("wrote example config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", config.DefaultPath, "Where to write the example config.")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file.")

	return cmd
}
