// Package users declares the server-side repository contract for accounts.
package users

import (
	"context"

	"github.com/ayrahq/ayra/internal/server/models"
)

type Repository interface {
	// Create stores a new user and fills in its generated ID. A duplicate
	// email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns common.ErrorNotFound for an unknown address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
