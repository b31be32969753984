package persistence

import (
	"benchstore/internal/persistence/interfaces"
	"benchstore/internal/providers"
	"benchstore/internal/services"
	"benchstore/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.BenchmarkServiceInterface
	fileManager *FileManager
	archive     *Archive
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
	savedRev    uint64
}

// Init starts the periodic job that writes the data file whenever the
// in-memory revision moved since the last write.
func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.persistLocked(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	s.savedRev = s.service.GetRevision()
	s.updateGauges()
	s.logger.Infof(providers.TypeApp, "Restored %d categories from %s", len(s.service.GetCategories()), s.config.Persistence.FilePath)
	return nil
}

// Persist writes pending changes immediately. Used on shutdown.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting benchmark data to file...")
	err := s.persistLocked()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) persistLocked() error {
	rev := s.service.GetRevision()
	if rev == s.savedRev {
		return nil
	}

	start := time.Now()
	if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.savedRev = rev
	s.updateGauges()
	s.logger.Infof(providers.TypeApp, "Persisted revision %d to file %s", rev, s.config.Persistence.FilePath)

	if s.archive != nil {
		if err := s.archive.Export(s.service.GetSnapshot()); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while exporting archive to %s: %s", s.archive.Dir(), err)
		}
	}
	return nil
}

func (s *Scheduler) updateGauges() {
	for _, category := range s.service.GetCategories() {
		s.metrics.SetEntriesTotal(category, s.service.GetEntryCount(category))
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.BenchmarkServiceInterface, fileManager *FileManager, compressor interfaces.CompressorInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	s := &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
	}
	if config.Persistence.ArchiveDir != "" {
		s.archive = NewArchive(config.Persistence.ArchiveDir, compressor, logger)
	}
	return s
}
