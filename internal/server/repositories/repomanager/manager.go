package repomanager

import (
	"context"

	"github.com/dmitrijs2005/donadmin/internal/server/repositories/ads"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/users"
)

// Repos is the set of repositories bound to one handle, either the
// database itself or an open transaction.
type Repos struct {
	Users users.Repository
	Ads   ads.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Repos() Repos
	// WithTx runs fn against repositories that share one transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
