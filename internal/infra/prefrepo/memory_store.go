package prefrepo

import (
	"context"
	"sync"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]outfit.Preferences
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]outfit.Preferences)}
}

// Get implements outfit.PreferenceStore.
func (s *MemoryStore) Get(_ context.Context, userID string) (outfit.Preferences, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.items[userID]
	return prefs, ok, nil
}

// Put implements outfit.PreferenceStore.
func (s *MemoryStore) Put(_ context.Context, userID string, prefs outfit.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = prefs
	return nil
}

var _ outfit.PreferenceStore = (*MemoryStore)(nil)
