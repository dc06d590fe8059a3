package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/gosh/core/config"
)

// initCmd seeds the configuration directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if _, err := config.Initialize(afero.NewOsFs(), cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s\n", cfgPath, config.ConfigurationName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
