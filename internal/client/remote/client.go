// Package remote defines the client-side contract for Ayra's external
// collaborators: the identity provider, the item and category stores, and
// file storage. The concrete implementation speaks HTTP/JSON to the Ayra API.
package remote

import (
	"context"
	"time"

	"github.com/ayrahq/ayra/internal/client/models"
)

// Client is the remote surface the coordinators depend on. Implementations
// must honor context cancellation on every call.
type Client interface {
	Close() error

	// Identity provider.
	SignUp(ctx context.Context, email, password, redirectTo string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	SignOut(ctx context.Context) error

	// Item store. HasItems is the cheap existence check the import runner
	// uses; it must not fetch the full result set.
	HasItems(ctx context.Context) (bool, error)
	CreateItem(ctx context.Context, item models.NewItem) (*models.Item, error)
	BackdateItem(ctx context.Context, id string, createdAt time.Time) error
	ListItems(ctx context.Context) ([]models.Item, error)

	// Category store. CreateCategory reports common.ErrorAlreadyExists on
	// duplicates; callers decide whether that is fatal.
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)

	// File storage: uploads a named binary payload, returning the storage
	// key that item records reference.
	UploadFile(ctx context.Context, name string, data []byte) (string, error)

	Ping(ctx context.Context) error
}
