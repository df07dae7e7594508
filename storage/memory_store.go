package storage

import (
	"context"
	"sync"

	"price-dashboard/models"
)

// MemoryStore keeps the dataset in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	obs []*models.Observation
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]*models.Observation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, false, nil
	}
	return cloneObservations(m.obs), true, nil
}

func (m *MemoryStore) Save(ctx context.Context, obs []*models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = cloneObservations(obs)
	m.set = true
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func cloneObservations(obs []*models.Observation) []*models.Observation {
	out := make([]*models.Observation, len(obs))
	for i, o := range obs {
		c := *o
		out[i] = &c
	}
	return out
}
