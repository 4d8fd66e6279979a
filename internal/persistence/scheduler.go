package persistence

import (
	"adforge/internal/persistence/interfaces"
	"adforge/internal/providers"
	"adforge/internal/services"
	"adforge/internal/structures"
	"context"
	"sync"

	"github.com/roylee0704/gron"
)

// Scheduler owns the persistence lifecycle: restore at boot, retry dirty
// saves on an interval, final save at shutdown.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	store     services.SessionStoreInterface
	persister *Persister
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		if !s.persister.Dirty() {
			return
		}
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.logger.Infof(providers.TypeApp, "Retrying unsaved sessions...")
		if err := s.persister.Flush(context.Background()); err != nil {
			return
		}
		s.logger.Infof(providers.TypeApp, "Unsaved sessions persisted")
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the saved collection into the store and starts mirroring
// further commits. It never fails on bad data.
func (s *Scheduler) Restore() error {
	sessions := s.persister.Load(context.Background())
	s.store.Replace(sessions)
	s.persister.Observe()
	s.logger.Infof(providers.TypeApp, "Restored %d sessions from %s storage", len(sessions), s.config.Persistence.Driver)
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting sessions...")
	return s.persister.Flush(context.Background())
}

func NewScheduler(config *structures.Config, logger providers.Logger, store services.SessionStoreInterface, persister *Persister) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		store:     store,
		persister: persister,
	}
}
