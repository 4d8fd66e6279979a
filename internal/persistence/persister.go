package persistence

import (
	"adforge/internal/models"
	"adforge/internal/persistence/interfaces"
	"adforge/internal/providers"
	"adforge/internal/services"
	"adforge/internal/structures"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

// Persister mirrors the session store into a single key of a KV store. Loads
// never fail the process and saves never fail the caller: the in-memory
// collection stays authoritative and a failed save is retried by the next
// commit or by the periodic flush.
type Persister struct {
	key        string
	kv         interfaces.KVStoreInterface
	compressor interfaces.CompressorInterface
	store      services.SessionStoreInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	mu       sync.Mutex
	savedRev uint64
	dirty    atomic.Bool
}

func NewPersister(conf *structures.Config, kv interfaces.KVStoreInterface, compressor interfaces.CompressorInterface, store services.SessionStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Persister {
	return &Persister{
		key:        conf.Persistence.Key,
		kv:         kv,
		compressor: compressor,
		store:      store,
		logger:     logger,
		metrics:    metrics,
	}
}

// NewKVStore opens the backend named by persistence.driver.
func NewKVStore(conf *structures.Config) (interfaces.KVStoreInterface, error) {
	switch conf.Persistence.Driver {
	case "file":
		return NewFileStore(conf.Persistence.Dir, conf.Persistence.QuotaBytes)
	case "sqlite":
		return NewSQLiteStore(conf.Persistence.Dir, conf.Persistence.QuotaBytes)
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", conf.Persistence.Driver)
	}
}

// Load returns the stored collection. A missing key, an unreadable store or a
// value that does not decode all yield an empty collection.
func (p *Persister) Load(ctx context.Context) []models.Session {
	raw, err := p.Export(ctx)
	if err != nil {
		p.logger.Errorf(providers.TypeApp, "Unable to read saved sessions, starting empty: %s", err)
		return []models.Session{}
	}
	if raw == nil {
		return []models.Session{}
	}

	var sessions []models.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		p.logger.Errorf(providers.TypeApp, "Saved sessions are not valid JSON, starting empty: %s", err)
		return []models.Session{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions
}

// Export returns the stored value as plain JSON, or nil when nothing is stored.
func (p *Persister) Export(ctx context.Context) ([]byte, error) {
	data, found, err := p.kv.Get(ctx, p.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return p.compressor.Decompress(data)
}

// Observe subscribes the persister to every store commit.
func (p *Persister) Observe() {
	p.store.Subscribe(func(rev uint64, sessions []models.Session) {
		_ = p.save(context.Background(), rev, sessions)
	})
}

// Flush writes the current store contents unconditionally.
func (p *Persister) Flush(ctx context.Context) error {
	return p.save(ctx, p.store.Revision(), p.store.Snapshot())
}

func (p *Persister) Dirty() bool {
	return p.dirty.Load()
}

func (p *Persister) save(ctx context.Context, rev uint64, sessions []models.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rev < p.savedRev {
		return nil
	}

	start := time.Now()
	err := p.write(ctx, sessions)
	p.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		p.dirty.Store(true)
		reason := "io"
		if errors.Is(err, ErrQuotaExceeded) {
			reason = "quota"
		}
		p.metrics.IncPersistenceFailures(reason)
		p.logger.Errorf(providers.TypeApp, "Error while persisting %d sessions (revision %d): %s", len(sessions), rev, err)
		return err
	}

	p.savedRev = rev
	p.dirty.Store(false)
	p.logger.Debugf(providers.TypeApp, "Persisted %d sessions (revision %d)", len(sessions), rev)
	return nil
}

func (p *Persister) write(ctx context.Context, sessions []models.Session) error {
	jsonData, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	data, err := p.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, p.key, data)
}

func (p *Persister) Close() {
	p.compressor.Close()
	if err := p.kv.Close(); err != nil {
		p.logger.Warnf(providers.TypeApp, "Error while closing storage: %s", err)
	}
}
