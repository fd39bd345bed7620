package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/donadmin/internal/common"
	"github.com/dmitrijs2005/donadmin/internal/server/models"
)

// MemoryRepository keeps users in process memory. Returned values are
// copies, so callers may modify them freely.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.User
	seq   int64
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]models.User{}, now: time.Now}
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return nil, common.ErrorAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, ok := r.items[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.seq++
	user.CreatedAt = r.now().Add(time.Duration(r.seq))
	r.items[user.ID] = *clone(*user)
	return user, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.items[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, common.ErrorAlreadyExists
	}
	user.CreatedAt = old.CreatedAt
	r.items[user.ID] = *clone(*user)
	return user, nil
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

// emailTaken must be called with mu held.
func (r *MemoryRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.items {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func clone(u models.User) *models.User {
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &u
}
