package persistence

import (
	"benchstore/internal/models"
	"benchstore/internal/providers"
	"benchstore/internal/services"
	"benchstore/internal/structures"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultLockTimeout = 10 * time.Second

type FileManager struct {
	service     services.BenchmarkServiceInterface
	logger      providers.Logger
	lockTimeout time.Duration
}

func NewFileManager(conf *structures.Config, service services.BenchmarkServiceInterface, logger providers.Logger) *FileManager {
	timeout := conf.Persistence.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	return &FileManager{
		service:     service,
		logger:      logger,
		lockTimeout: timeout,
	}
}

// SaveToFile writes the service snapshot to fileName under the file lock.
func (f *FileManager) SaveToFile(fileName string) error {
	data, err := models.Serialize(f.service.GetSnapshot())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.lockTimeout)
	defer cancel()

	lock, err := AcquireLock(ctx, fileName)
	if err != nil {
		return err
	}
	defer lock.Release()

	return writeFileAtomic(fileName, data)
}

// LoadFromFile replaces the service suite with the content of fileName.
// A missing file leaves the service untouched.
func (f *FileManager) LoadFromFile(fileName string) error {
	suite, err := f.ReadSuite(fileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	f.service.PutSuite(suite)
	return nil
}

// ReadSuite parses fileName. Files holding the bare JSON object written by
// older tooling are migrated on the fly.
func (f *FileManager) ReadSuite(fileName string) (*models.BenchmarkSuite, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	suite, err := models.Deserialize(data)
	if err == nil {
		return suite, nil
	}
	if !errors.Is(err, models.ErrMissingAssignment) {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	f.logger.Warnf(providers.TypeApp, "%s has no %s assignment, try to migrate from raw JSON", fileName, models.ScriptVariable)
	suite, err = models.DecodeJSON(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	f.logger.Warnf(providers.TypeApp, "Migration from raw JSON successful")
	return suite, nil
}

// Update runs a locked read-modify-write of fileName. fn receives the current
// suite (a new one for repoURL when the file does not exist yet); the result
// is written only when fn succeeds.
func (f *FileManager) Update(ctx context.Context, fileName, repoURL string, fn func(suite *models.BenchmarkSuite) error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.lockTimeout)
		defer cancel()
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	lock, err := AcquireLock(ctx, fileName)
	if err != nil {
		return err
	}
	defer lock.Release()

	suite, err := f.ReadSuite(fileName)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.logger.Infof(providers.TypeApp, "%s does not exist, starting a new history", fileName)
		suite = models.NewBenchmarkSuite(repoURL)
	case err != nil:
		return err
	}
	if suite.RepoURL == "" {
		suite.RepoURL = repoURL
	}

	if err := fn(suite); err != nil {
		return err
	}

	data, err := models.Serialize(suite)
	if err != nil {
		return err
	}
	return writeFileAtomic(fileName, data)
}

func writeFileAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
