package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ayrahq/ayra/internal/server/models"
	"github.com/ayrahq/ayra/internal/server/repositories/repomanager"
)

// ItemService implements the item store the clients talk to: create, list,
// a cheap existence probe, and creation-timestamp rewriting for imported
// records.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m}
}

func (s *ItemService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	repo := s.repomanager.Items(s.db)
	created, err := repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}
	return created, nil
}

func (s *ItemService) List(ctx context.Context, userID string) ([]*models.Item, error) {
	repo := s.repomanager.Items(s.db)
	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return items, nil
}

// HasAny reports whether the user owns at least one item without fetching
// any rows.
func (s *ItemService) HasAny(ctx context.Context, userID string) (bool, error) {
	repo := s.repomanager.Items(s.db)
	exists, err := repo.ExistsForUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("error checking items: %w", err)
	}
	return exists, nil
}

// Backdate rewrites the item's creation timestamp, used when importing
// records that carry their original dates.
func (s *ItemService) Backdate(ctx context.Context, userID, id string, createdAt time.Time) error {
	repo := s.repomanager.Items(s.db)
	if err := repo.UpdateCreatedAt(ctx, userID, id, createdAt); err != nil {
		return err
	}
	return nil
}
