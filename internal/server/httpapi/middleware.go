package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// userID returns the authenticated user's ID stored by requireAuth.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireAuth validates the bearer token and stores the user ID in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeServiceError(w, r, common.ErrInvalidToken)
			return
		}
		id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}
