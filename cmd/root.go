// Package cmd holds the CLI entry points.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/gosh/core"
	"github.com/josephlewis42/gosh/core/config"
)

var (
	cfgPath     string
	commandLine string
)

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gosh"
	}
	return filepath.Join(home, ".gosh")
}

// rootCmd runs the interactive shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "An interactive command shell",
	Long:  `gosh is an interactive POSIX command shell with line editing, tab completion and history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(afero.NewOsFs(), cfgPath)
		if err != nil {
			return err
		}

		shell, err := core.NewShell(cfg)
		if err != nil {
			return err
		}

		if commandLine != "" {
			os.Exit(shell.RunCommand(commandLine))
		}
		os.Exit(shell.Run())
		return nil
	},
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "configuration directory")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command and exit")
}
