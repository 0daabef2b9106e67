package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayrahq/ayra/internal/logging"
	"github.com/ayrahq/ayra/internal/server/models"
	"github.com/ayrahq/ayra/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// UserProvider is the slice of the user service the API depends on.
type UserProvider interface {
	Register(ctx context.Context, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*services.Session, error)
	Logout(ctx context.Context, userID string) error
}

// ItemProvider is the slice of the item service the API depends on.
type ItemProvider interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	List(ctx context.Context, userID string) ([]*models.Item, error)
	HasAny(ctx context.Context, userID string) (bool, error)
	Backdate(ctx context.Context, userID, id string, createdAt time.Time) error
}

// CategoryProvider is the slice of the category service the API depends on.
type CategoryProvider interface {
	Create(ctx context.Context, userID, name string) (*models.Category, error)
	List(ctx context.Context, userID string) ([]*models.Category, error)
}

// FileProvider is the slice of the file service the API depends on.
type FileProvider interface {
	GetPresignedPutURL(ctx context.Context) (string, string, error)
	GetPresignedGetURL(ctx context.Context, key string) (string, error)
}

// Server serves the Ayra HTTP API.
type Server struct {
	addr       string
	jwtSecret  []byte
	users      UserProvider
	items      ItemProvider
	categories CategoryProvider
	files      FileProvider
	logger     logging.Logger
}

func NewServer(addr string, jwtSecret []byte, users UserProvider,
	items ItemProvider, categories CategoryProvider,
	files FileProvider, logger logging.Logger) *Server {
	return &Server{
		addr:       addr,
		jwtSecret:  jwtSecret,
		users:      users,
		items:      items,
		categories: categories,
		files:      files,
		logger:     logger,
	}
}

// Router builds the chi mux with all API routes mounted under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/signin", s.handleSignIn)
			r.Post("/refresh", s.handleRefresh)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/signout", s.handleSignOut)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/items/exists", s.handleItemsExist)
			r.Get("/items", s.handleListItems)
			r.Post("/items", s.handleCreateItem)
			r.Patch("/items/{id}/created-at", s.handleBackdateItem)

			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleCreateCategory)

			r.Post("/files/presign-upload", s.handlePresignUpload)
			r.Get("/files/presign-download", s.handlePresignDownload)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
