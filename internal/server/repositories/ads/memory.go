package ads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/donadmin/internal/common"
	"github.com/dmitrijs2005/donadmin/internal/server/models"
)

// MemoryRepository keeps ads in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Ad
	seq   int64
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]models.Ad{}, now: time.Now}
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Ad, 0, len(r.items))
	for _, a := range r.items {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Create(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	if _, ok := r.items[ad.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	// nanosecond offsets keep insertion order stable when the clock is coarse
	r.seq++
	ad.CreatedAt = r.now().Add(time.Duration(r.seq))
	ad.UpdatedAt = ad.CreatedAt
	r.items[ad.ID] = *ad
	out := *ad
	return &out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.items[ad.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	next := *ad
	next.OwnerID = old.OwnerID
	next.CreatedAt = old.CreatedAt
	next.UpdatedAt = r.now()
	r.items[ad.ID] = next
	return &next, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) ClearOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.items {
		if a.OwnerID == ownerID {
			a.OwnerID = ""
			r.items[id] = a
			n++
		}
	}
	return n, nil
}
