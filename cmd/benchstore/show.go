package main

import (
	"benchstore/internal/models"
	"benchstore/internal/persistence"
	"benchstore/internal/services"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newShowCmd(c *cli) *cobra.Command {
	var file, category string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Summarize the history or the latest run of a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fm := persistence.NewFileManager(c.conf, services.NewBenchmarkService(c.conf), c.logger)
			path := firstNonEmpty(file, c.conf.Persistence.FilePath)
			suite, err := fm.ReadSuite(path)
			if err != nil {
				return err
			}
			if category == "" {
				return showCategories(cmd, suite)
			}
			return showLatest(cmd, suite, category)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "data file (default persistence.filePath)")
	cmd.Flags().StringVar(&category, "category", "", "show the metrics of the latest run of this category")
	return cmd
}

func showCategories(cmd *cobra.Command, suite *models.BenchmarkSuite) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, dimStyle.Render(suite.RepoURL))

	rows := [][]string{{"CATEGORY", "ENTRIES", "LATEST COMMIT", "LATEST RUN"}}
	for _, name := range suite.Categories() {
		row := []string{name, strconv.Itoa(suite.Len(name)), "-", "-"}
		if latest, ok := suite.Latest(name); ok {
			row[2] = shortCommit(latest.Commit.ID)
			row[3] = formatMillis(latest.Date)
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, table(rows))
	return nil
}

func showLatest(cmd *cobra.Command, suite *models.BenchmarkSuite, category string) error {
	latest, ok := suite.Latest(category)
	if !ok {
		return fmt.Errorf("category %q not found", category)
	}
	metrics, err := models.EntryMetrics(latest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s\n", titleStyle.Render(category),
		shortCommit(latest.Commit.ID), dimStyle.Render(formatMillis(latest.Date)))

	rows := [][]string{{"BENCHMARK", "VALUE", "UNIT"}}
	for _, m := range metrics {
		rows = append(rows, []string{m.Benchmark, strconv.FormatFloat(m.Value, 'g', -1, 64), m.Unit})
	}
	fmt.Fprintln(out, table(rows))
	return nil
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
