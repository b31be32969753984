package main

import (
	"benchstore/internal/alert"
	"benchstore/internal/gitinfo"
	"benchstore/internal/gobench"
	"benchstore/internal/models"
	"benchstore/internal/persistence"
	"benchstore/internal/providers"
	"benchstore/internal/services"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var errRegression = errors.New("performance regression detected")

type appendOptions struct {
	file        string
	category    string
	input       string
	event       string
	gitDir      string
	legacyUnits bool
	date        int64
	threshold   float64
	failOnAlert bool
}

func newAppendCmd(c *cli) *cobra.Command {
	opts := &appendOptions{}

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Parse go test -bench output and append it to the history",
		Long: `Reads the output of 'go test -bench' (stdin by default), describes the
commit from a GitHub event payload or from git, appends the run to the data
file under an exclusive lock and reports regressions against the previous run
of the same category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fail-on-alert") {
				opts.failOnAlert = c.conf.Alert.FailOnAlert
			}
			return runAppend(cmd, c, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "data file (default persistence.filePath)")
	cmd.Flags().StringVar(&opts.category, "category", "", "benchmark category (default store.defaultCategory)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "benchmark output file, - for stdin")
	cmd.Flags().StringVar(&opts.event, "event", "", "GitHub event payload (default $GITHUB_EVENT_PATH)")
	cmd.Flags().StringVar(&opts.gitDir, "git-dir", ".", "checkout used when no event payload is available")
	cmd.Flags().BoolVar(&opts.legacyUnits, "legacy-units", false, "store one result per benchmark with combined units")
	cmd.Flags().Int64Var(&opts.date, "date", 0, "run time in Unix milliseconds (default now)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "alert ratio (default alert.threshold)")
	cmd.Flags().BoolVar(&opts.failOnAlert, "fail-on-alert", false, "exit non-zero when a regression is detected (default alert.failOnAlert)")
	return cmd
}

func runAppend(cmd *cobra.Command, c *cli, opts *appendOptions) error {
	conf := c.conf
	file := firstNonEmpty(opts.file, conf.Persistence.FilePath)
	category := firstNonEmpty(opts.category, conf.Store.DefaultCategory)
	threshold := opts.threshold
	if threshold <= 0 {
		threshold = conf.Alert.Threshold
	}

	benches, err := readBenches(cmd, opts)
	if err != nil {
		return err
	}

	commit, err := resolveCommit(cmd, c, opts)
	if err != nil {
		return err
	}

	date := opts.date
	if date == 0 {
		date = time.Now().UnixMilli()
	}
	entry := models.Entry{
		Commit:  *commit,
		Date:    date,
		Tool:    conf.Store.Tool,
		Benches: benches,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	var alerts []alert.Alert
	var count int
	fm := persistence.NewFileManager(conf, services.NewBenchmarkService(conf), c.logger)
	err = fm.Update(cmd.Context(), file, conf.Store.RepoURL, func(suite *models.BenchmarkSuite) error {
		prev, _ := suite.Latest(category)
		alerts = alert.Compare(prev, &entry, threshold)
		suite.Append(category, entry)
		count = suite.Len(category)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append to %s: %w", file, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s to %q in %s (%d entries)\n",
		okStyle.Render("Appended"), shortCommit(entry.Commit.ID), category, file, count)

	if len(alerts) == 0 {
		return nil
	}

	printAlerts(out, alerts)
	notifier := providers.NewNotifierProvider(conf, c.logger)
	if err := notifier.Notify(cmd.Context(), alert.Message(category, alerts)); err != nil {
		c.logger.Errorf(providers.TypeApp, "Alert notification failed: %s", err)
	}
	if opts.failOnAlert {
		return errRegression
	}
	return nil
}

func readBenches(cmd *cobra.Command, opts *appendOptions) ([]models.BenchResult, error) {
	var r io.Reader = cmd.InOrStdin()
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	mode := gobench.ModeSplit
	if opts.legacyUnits {
		mode = gobench.ModeCombined
	}
	benches, err := gobench.Parse(r, mode)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.input, err)
	}
	return benches, nil
}

func resolveCommit(cmd *cobra.Command, c *cli, opts *appendOptions) (*models.CommitInfo, error) {
	event := firstNonEmpty(opts.event, os.Getenv("GITHUB_EVENT_PATH"))
	if event != "" {
		commit, err := gitinfo.FromEventFile(event)
		if err == nil {
			return commit, nil
		}
		if !errors.Is(err, gitinfo.ErrNoCommit) {
			return nil, err
		}
		c.logger.Warnf(providers.TypeApp, "No commit in %s, falling back to git", event)
	}
	return gitinfo.FromGit(cmd.Context(), opts.gitDir, c.conf.Store.RepoURL)
}

func printAlerts(w io.Writer, alerts []alert.Alert) {
	fmt.Fprintln(w, alertStyle.Render(fmt.Sprintf("%d possible regression(s):", len(alerts))))
	for _, a := range alerts {
		fmt.Fprintf(w, "  %s\n", a.String())
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func shortCommit(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
