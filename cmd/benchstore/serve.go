package main

import (
	"benchstore/internal/di"

	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the history over HTTP and persist appended entries",
		Long: `Serve the history over HTTP and persist appended entries.

The server loads the data file once at start-up and owns it from then on:
every periodic save and the final save on shutdown overwrite the file with
the in-memory history. Do not run "benchstore append" against the same file
while the server is running; post the entry to POST /entries instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := di.InitApp(&c.flags)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}
