package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests. Documents round-trip through
// JSON on write so stored shapes match what the jsonb-backed store returns.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func encode(doc Document, now time.Time) (Document, error) {
	raw, err := json.Marshal(resolveTimestamps(doc, now))
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) List(ctx context.Context, collection, orderBy string, desc bool) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0, len(m.collections[collection]))
	for id, doc := range m.collections[collection] {
		copied := make(Document, len(doc))
		for k, v := range doc {
			copied[k] = v
		}
		out = append(out, Snapshot{ID: id, Data: copied})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if orderBy == "" {
			return out[i].ID < out[j].ID
		}
		ki := fmt.Sprint(out[i].Data[orderBy])
		kj := fmt.Sprint(out[j].Data[orderBy])
		if desc {
			return ki > kj
		}
		return ki < kj
	})
	return out, nil
}

func (m *Memory) Add(ctx context.Context, collection string, doc Document) (string, error) {
	stored, err := encode(doc, time.Now().UTC())
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	id := uuid.NewString()
	m.collections[collection][id] = stored
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, patch Document) error {
	stored, err := encode(patch, time.Now().UTC())
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range stored {
		existing[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}
