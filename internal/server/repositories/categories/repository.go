// Package categories declares the server-side repository contract for the
// per-user category partitions.
package categories

import (
	"context"

	"github.com/ayrahq/ayra/internal/server/models"
)

type Repository interface {
	// Create stores a new category and fills in its generated ID. A
	// duplicate (user, name) pair yields common.ErrorAlreadyExists.
	Create(ctx context.Context, category *models.Category) (*models.Category, error)

	ListByUser(ctx context.Context, userID string) ([]*models.Category, error)
}
