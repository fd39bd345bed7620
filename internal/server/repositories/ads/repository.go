// Package ads stores donation ads.
package ads

import (
	"context"

	"github.com/dmitrijs2005/donadmin/internal/server/models"
)

// Repository persists ads. Unknown ids return common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context) ([]*models.Ad, error)
	Get(ctx context.Context, id string) (*models.Ad, error)
	Create(ctx context.Context, ad *models.Ad) (*models.Ad, error)
	Update(ctx context.Context, ad *models.Ad) (*models.Ad, error)
	Delete(ctx context.Context, id string) error
	// ClearOwner detaches every ad owned by ownerID and reports how many
	// were touched.
	ClearOwner(ctx context.Context, ownerID string) (int64, error)
}
