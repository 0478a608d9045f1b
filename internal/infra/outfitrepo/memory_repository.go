package outfitrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// MemoryRepository keeps outfits in process memory, used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]outfit.Outfit
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string]map[string]outfit.Outfit)}
}

// Create implements outfit.Repository.
func (r *MemoryRepository) Create(_ context.Context, userID string, o outfit.Outfit) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.byUser[userID]
	if !ok {
		items = make(map[string]outfit.Outfit)
		r.byUser[userID] = items
	}
	o.ID = uuid.NewString()
	o.Items = copyItems(o.Items)
	items[o.ID] = o
	return o.ID, nil
}

// Delete implements outfit.Repository.
func (r *MemoryRepository) Delete(_ context.Context, userID, outfitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser[userID], outfitID)
	return nil
}

// ListOrderedByNumber implements outfit.Repository.
func (r *MemoryRepository) ListOrderedByNumber(_ context.Context, userID string) ([]outfit.Outfit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]outfit.Outfit, 0, len(r.byUser[userID]))
	for _, o := range r.byUser[userID] {
		o.Items = copyItems(o.Items)
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number == out[j].Number {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

// MaxNumber implements outfit.Repository.
func (r *MemoryRepository) MaxNumber(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	highest := 0
	for _, o := range r.byUser[userID] {
		if o.Number > highest {
			highest = o.Number
		}
	}
	return highest, nil
}

// copyItems returns an independent copy that is never nil, so an empty
// list is stored and served as [] rather than null.
func copyItems(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

var _ outfit.Repository = (*MemoryRepository)(nil)
