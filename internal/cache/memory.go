package cache

import (
	"context"
	"sync"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

// Memory is an in-process tally cache. It is used when redis is not configured and in tests.
type Memory struct {
	mu          sync.Mutex
	tallies     map[string][]models.Tally
	generations map[string]int64
}

func NewMemory() *Memory {
	return &Memory{
		tallies:     make(map[string][]models.Tally),
		generations: make(map[string]int64),
	}
}

func (m *Memory) Get(_ context.Context, pollID string) ([]models.Tally, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tallies[pollID]
	return t, ok, nil
}

func (m *Memory) Generation(_ context.Context, pollID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[pollID], nil
}

// Set drops tallies computed before the latest invalidation of pollID.
func (m *Memory) Set(_ context.Context, pollID string, generation int64, tallies []models.Tally) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[pollID] != generation {
		return nil
	}
	m.tallies[pollID] = tallies
	return nil
}

func (m *Memory) Invalidate(_ context.Context, pollIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range pollIDs {
		delete(m.tallies, id)
		m.generations[id]++
	}
	return nil
}

// Len reports how many polls currently have a cached tally.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tallies)
}
