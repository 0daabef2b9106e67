package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/server/models"
	"github.com/ayrahq/ayra/internal/server/repositories/repomanager"
)

// CategoryService manages per-user category partitions. Names are unique per
// user; a duplicate create surfaces common.ErrorAlreadyExists verbatim so
// clients can treat it as benign.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

func (s *CategoryService) Create(ctx context.Context, userID, name string) (*models.Category, error) {
	repo := s.repomanager.Categories(s.db)
	created, err := repo.Create(ctx, &models.Category{UserID: userID, Name: name})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return created, nil
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]*models.Category, error) {
	repo := s.repomanager.Categories(s.db)
	categories, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return categories, nil
}
