package main

import (
	"benchstore/internal/providers"
	"benchstore/internal/structures"

	"github.com/spf13/cobra"
)

// cli is the state shared by all subcommands once the root pre-run loaded
// the configuration.
type cli struct {
	flags  structures.CliFlags
	conf   *structures.Config
	logger providers.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "benchstore",
		Short: "Keep a benchmark history in a window.BENCHMARK_DATA script",
		Long: `benchstore appends benchmark runs to the data.js file read by the
benchmark dashboard, reports regressions against the previous run and can
serve the history over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.flags.ConfigPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&c.flags.DebugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newAppendCmd(c),
		newShowCmd(c),
		newValidateCmd(c),
		newArchiveCmd(c),
		newServeCmd(c),
	)
	return rootCmd
}

func (c *cli) load(cmd *cobra.Command) error {
	conf, err := providers.NewConfigProvider(&c.flags)
	if err != nil {
		return err
	}
	level := conf.Logger.Level
	if conf.Debug {
		level = "debug"
	}
	c.conf = conf
	c.logger = providers.NewConsoleLogProvider(cmd.ErrOrStderr(), level)
	return nil
}
