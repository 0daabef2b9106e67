// Package items declares the server-side repository contract for stored
// knowledge items.
package items

import (
	"context"
	"time"

	"github.com/ayrahq/ayra/internal/server/models"
)

type Repository interface {
	// Create stores a new item and fills in its generated ID and creation
	// timestamp.
	Create(ctx context.Context, item *models.Item) (*models.Item, error)

	// ExistsForUser is a cheap existence probe; it must not fetch rows.
	ExistsForUser(ctx context.Context, userID string) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]*models.Item, error)

	// UpdateCreatedAt rewrites an item's creation timestamp. An unknown id
	// (or one owned by another user) yields common.ErrorNotFound.
	UpdateCreatedAt(ctx context.Context, userID, id string, createdAt time.Time) error
}
