package records

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/records"
)

type memoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*records.Record
}

// NewMemoryRepository constructs an in-memory record repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID: make(map[uuid.UUID]*records.Record),
	}
}

func (m *memoryRepository) Create(_ context.Context, record *records.Record) (*records.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := record.Clone()
	m.byID[cloned.ID] = cloned
	return cloned.Clone(), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*records.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "record", Key: id.String()}
	}
	return record.Clone(), nil
}

func (m *memoryRepository) GetByName(_ context.Context, contentType, scope, name string) (*records.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.byID {
		if record.ContentType == contentType && record.Scope == scope && record.Name == name {
			return record.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "record", Key: name}
}

func (m *memoryRepository) List(_ context.Context, contentType, scope string) ([]*records.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*records.Record, 0, len(m.byID))
	for _, record := range m.byID {
		if record.ContentType != contentType || record.Scope != scope {
			continue
		}
		out = append(out, record.Clone())
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, record *records.Record) (*records.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "record", Key: record.ID.String()}
	}
	cloned := record.Clone()
	m.byID[cloned.ID] = cloned
	return cloned.Clone(), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "record", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}
