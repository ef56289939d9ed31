package pagestore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory page record store for scaffolding/tests.
// It honors the same last-write-wins, full-overwrite semantics as the bun
// implementation.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  map[string]*PageRecord // keyed pk + "|" + sk
	settings *SiteSettings
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*PageRecord)}
}

var (
	_ Repository         = (*MemoryRepository)(nil)
	_ SettingsRepository = (*MemoryRepository)(nil)
)

// Get retrieves one (pageID, state) record.
func (m *MemoryRepository) Get(_ context.Context, pageID string, state State) (*PageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[memoryKey(pageID, state)]
	if !ok {
		return nil, &RecordNotFoundError{PageID: pageID, State: state}
	}
	return record.Clone(), nil
}

// Put stores the record, replacing any prior value for its key.
func (m *MemoryRepository) Put(_ context.Context, record *PageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[memoryKey(record.PageID, record.State)] = record.Clone()
	return nil
}

// ScanByPrefix returns every record whose partition key starts with prefix,
// ordered by (pk, sk) for deterministic iteration.
func (m *MemoryRepository) ScanByPrefix(_ context.Context, prefix string) ([]*PageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*PageRecord, 0, len(m.records))
	for _, record := range m.records {
		if strings.HasPrefix(PartitionKey(record.PageID), prefix) {
			out = append(out, record.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PageID == out[j].PageID {
			return out[i].State < out[j].State
		}
		return out[i].PageID < out[j].PageID
	})
	return out, nil
}

// Delete removes both lifecycle records for the page. Missing records are
// not an error; delete is idempotent.
func (m *MemoryRepository) Delete(_ context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, memoryKey(pageID, StateDraft))
	delete(m.records, memoryKey(pageID, StatePublished))
	return nil
}

// LoadSettings returns the site settings record.
func (m *MemoryRepository) LoadSettings(_ context.Context) (*SiteSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, ErrSettingsNotFound
	}
	copied := *m.settings
	return &copied, nil
}

// SaveSettings replaces the site settings record.
func (m *MemoryRepository) SaveSettings(_ context.Context, settings *SiteSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *settings
	m.settings = &copied
	return nil
}

func memoryKey(pageID string, state State) string {
	return PartitionKey(pageID) + "|" + string(state)
}
