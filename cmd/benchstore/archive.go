package main

import (
	"benchstore/internal/models"
	"benchstore/internal/persistence"
	"benchstore/internal/services"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoArchiveDir = errors.New("no archive directory: pass --dir or set persistence.archiveDir")

type archiveOptions struct {
	file  string
	dir   string
	force bool
}

func newArchiveCmd(c *cli) *cobra.Command {
	opts := &archiveOptions{}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Export or import zstd-compressed per-category archives",
	}
	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "data file (default persistence.filePath)")
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "archive directory (default persistence.archiveDir)")

	export := &cobra.Command{
		Use:   "export",
		Short: "Write one archive per category of the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd, c, opts, exportArchive)
		},
	}

	imp := &cobra.Command{
		Use:   "import",
		Short: "Rebuild the data file from the archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd, c, opts, importArchive)
		},
	}
	imp.Flags().BoolVar(&opts.force, "force", false, "replace a data file that already holds entries")

	cmd.AddCommand(export, imp)
	return cmd
}

type archiveFunc func(cmd *cobra.Command, fm *persistence.FileManager, archive *persistence.Archive, file string, force bool) error

func runArchive(cmd *cobra.Command, c *cli, opts *archiveOptions, fn archiveFunc) error {
	dir := firstNonEmpty(opts.dir, c.conf.Persistence.ArchiveDir)
	if dir == "" {
		return errNoArchiveDir
	}

	compressor, err := persistence.NewZstdCompressor()
	if err != nil {
		return err
	}
	defer compressor.Close()

	fm := persistence.NewFileManager(c.conf, services.NewBenchmarkService(c.conf), c.logger)
	archive := persistence.NewArchive(dir, compressor, c.logger)
	return fn(cmd, fm, archive, firstNonEmpty(opts.file, c.conf.Persistence.FilePath), opts.force)
}

func exportArchive(cmd *cobra.Command, fm *persistence.FileManager, archive *persistence.Archive, file string, _ bool) error {
	suite, err := fm.ReadSuite(file)
	if err != nil {
		return err
	}
	if err := archive.Export(suite); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d categories to %s\n", okStyle.Render("Exported"), len(suite.Categories()), archive.Dir())
	return nil
}

func importArchive(cmd *cobra.Command, fm *persistence.FileManager, archive *persistence.Archive, file string, force bool) error {
	imported, err := archive.Import()
	if err != nil {
		return err
	}

	err = fm.Update(cmd.Context(), file, imported.RepoURL, func(suite *models.BenchmarkSuite) error {
		if len(suite.Categories()) > 0 && !force {
			return fmt.Errorf("%s already holds %d categories, use --force to replace it", file, len(suite.Categories()))
		}
		repoURL := suite.RepoURL
		*suite = *imported
		if suite.RepoURL == "" {
			suite.RepoURL = repoURL
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d categories into %s\n", okStyle.Render("Imported"), len(imported.Categories()), file)
	return nil
}
