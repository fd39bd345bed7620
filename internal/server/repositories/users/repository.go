// Package users stores admin accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/donadmin/internal/server/models"
)

// Repository persists users. Lookups of unknown ids or emails return
// common.ErrorNotFound; a second account with the same email returns
// common.ErrorAlreadyExists.
type Repository interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
