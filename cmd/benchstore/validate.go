package main

import (
	"benchstore/internal/persistence"
	"benchstore/internal/services"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a data file parses and report its size",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.conf.Persistence.FilePath
			if len(args) == 1 {
				path = args[0]
			}

			fm := persistence.NewFileManager(c.conf, services.NewBenchmarkService(c.conf), c.logger)
			suite, err := fm.ReadSuite(path)
			if err != nil {
				return err
			}

			entries := 0
			for _, name := range suite.Categories() {
				entries += suite.Len(name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d categories, %d entries, last update %s\n",
				okStyle.Render("OK"), path, len(suite.Categories()), entries, formatMillis(suite.LastUpdate))
			return nil
		},
	}
}
