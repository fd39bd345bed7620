package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/donadmin/internal/server/repositories/ads"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/users"
)

// MemoryRepositoryManager backs the server when no database is configured.
// Transactions are serialized but not rolled back on error.
type MemoryRepositoryManager struct {
	txMu  sync.Mutex
	repos Repos
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{repos: Repos{
		Users: users.NewMemoryRepository(),
		Ads:   ads.NewMemoryRepository(),
	}}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Repos() Repos { return m.repos }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.repos)
}
