// Package services contains the server-side business logic behind the
// HTTP API: ads, user accounts with their sessions, and ad photos.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/donadmin/internal/server/models"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/repomanager"
)

// AdService provides CRUD over ads.
type AdService struct {
	repomanager repomanager.RepositoryManager
}

func NewAdService(m repomanager.RepositoryManager) *AdService {
	return &AdService{repomanager: m}
}

func (s *AdService) List(ctx context.Context) ([]*models.Ad, error) {
	items, err := s.repomanager.Repos().Ads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing ads: %w", err)
	}
	if items == nil {
		items = []*models.Ad{}
	}
	return items, nil
}

func (s *AdService) Get(ctx context.Context, id string) (*models.Ad, error) {
	return s.repomanager.Repos().Ads.Get(ctx, id)
}

// Create stores ad as owned by ownerID. Any id sent by the caller is
// replaced.
func (s *AdService) Create(ctx context.Context, ownerID string, ad *models.Ad) (*models.Ad, error) {
	ad.ID = ""
	ad.OwnerID = ownerID
	created, err := s.repomanager.Repos().Ads.Create(ctx, ad)
	if err != nil {
		return nil, fmt.Errorf("error creating ad: %w", err)
	}
	return created, nil
}

func (s *AdService) Update(ctx context.Context, id string, ad *models.Ad) (*models.Ad, error) {
	ad.ID = id
	updated, err := s.repomanager.Repos().Ads.Update(ctx, ad)
	if err != nil {
		return nil, fmt.Errorf("error updating ad: %w", err)
	}
	return updated, nil
}

func (s *AdService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Repos().Ads.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting ad: %w", err)
	}
	return nil
}
