package testutil

import (
	"adforge/internal/providers"
	"context"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockKVStore implements interfaces.KVStoreInterface in memory.
type MockKVStore struct {
	mu     sync.Mutex
	Data   map[string][]byte
	SetErr error
	GetErr error
	Sets   int
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string][]byte)}
}

func (m *MockKVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MockKVStore) Set(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = append([]byte(nil), val...)
	return nil
}

func (m *MockKVStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}

// FailWith makes every following Set return err; nil restores normal writes.
func (m *MockKVStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetErr = err
}

func (m *MockKVStore) Close() error { return nil }

// MockMetrics implements providers.MetricsProviderInterface and counts the
// calls tests usually assert on.
type MockMetrics struct {
	mu                  sync.Mutex
	PersistenceFailures map[string]int
	GatewayCalls        map[string]int
	Actions             map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string)                            {}
func (m *MockMetrics) IncCacheMisses(_ string)                          {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *MockMetrics) ObserveGatewayDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncPersistenceFailures(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PersistenceFailures == nil {
		m.PersistenceFailures = make(map[string]int)
	}
	m.PersistenceFailures[reason]++
}

func (m *MockMetrics) IncGatewayCalls(operation string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GatewayCalls == nil {
		m.GatewayCalls = make(map[string]int)
	}
	key := operation + ":ok"
	if !success {
		key = operation + ":error"
	}
	m.GatewayCalls[key]++
}

func (m *MockMetrics) IncActionsTotal(kind string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Actions == nil {
		m.Actions = make(map[string]int)
	}
	m.Actions[strings.Join([]string{kind, outcome}, ":")]++
}

// ActionCount reads a counter recorded by IncActionsTotal.
func (m *MockMetrics) ActionCount(kind, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Actions[kind+":"+outcome]
}
