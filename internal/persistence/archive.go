package persistence

import (
	"benchstore/internal/models"
	"benchstore/internal/persistence/interfaces"
	"benchstore/internal/providers"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const archiveExt = ".json.zst"

// ArchiveFile is the on-disk form of one category's history.
type ArchiveFile struct {
	Category   string         `json:"category"`
	RepoURL    string         `json:"repoUrl"`
	ArchivedAt time.Time      `json:"archivedAt"`
	Entries    []models.Entry `json:"entries"`
}

// Archive keeps a compressed copy of every category in its own file, so a
// single category can be restored or shipped without the whole data.js.
type Archive struct {
	mu         sync.Mutex
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewArchive(dir string, compressor interfaces.CompressorInterface, logger providers.Logger) *Archive {
	return &Archive{
		dir:        dir,
		compressor: compressor,
		logger:     logger,
	}
}

func (a *Archive) Dir() string {
	return a.dir
}

// Export writes one archive file per category of suite.
func (a *Archive) Export(suite *models.BenchmarkSuite) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, category := range suite.Categories() {
		af := &ArchiveFile{
			Category:   category,
			RepoURL:    suite.RepoURL,
			ArchivedAt: now,
			Entries:    suite.EntriesOf(category),
		}
		if err := a.writeArchiveFile(af); err != nil {
			return fmt.Errorf("archive %q: %w", category, err)
		}
	}
	return nil
}

// Load reads the archive of a single category.
func (a *Archive) Load(category string) (*ArchiveFile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readArchiveFile(a.archivePath(category))
}

// Import rebuilds a suite from every archive file in the directory.
func (a *Archive) Import() (*models.BenchmarkSuite, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	files, err := a.files()
	if err != nil {
		return nil, err
	}

	suite := models.NewBenchmarkSuite("")
	for _, file := range files {
		af, err := a.readArchiveFile(file)
		if err != nil {
			return nil, err
		}
		if suite.RepoURL == "" {
			suite.RepoURL = af.RepoURL
		}
		for _, e := range af.Entries {
			suite.Append(af.Category, e)
		}
		if af.Entries != nil && suite.Entries[af.Category] == nil {
			suite.Entries[af.Category] = []models.Entry{}
		}
	}

	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return suite, nil
}

// Categories lists the archived categories in sorted order.
func (a *Archive) Categories() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	files, err := a.files()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		name, err := a.categoryName(file)
		if err != nil {
			a.logger.Warnf(providers.TypeApp, "Skipping archive %s: %s", file, err)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (a *Archive) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(a.dir, "*"+archiveExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (a *Archive) readArchiveFile(path string) (*ArchiveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var af ArchiveFile
	if err := json.Unmarshal(decompressed, &af); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if af.Category == "" {
		af.Category, err = a.categoryName(path)
		if err != nil {
			return nil, err
		}
	}
	return &af, nil
}

func (a *Archive) writeArchiveFile(af *ArchiveFile) error {
	jsonData, err := json.Marshal(af)
	if err != nil {
		return err
	}

	compressed, err := a.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	return writeFileAtomic(a.archivePath(af.Category), compressed)
}

// archivePath escapes the category so labels with "/" or spaces stay one
// file name: "Go Benchmark" -> "Go%20Benchmark.json.zst".
func (a *Archive) archivePath(category string) string {
	return filepath.Join(a.dir, url.PathEscape(category)+archiveExt)
}

func (a *Archive) categoryName(path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), archiveExt)
	return url.PathUnescape(base)
}
