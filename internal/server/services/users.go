// Package services contains server-side business logic. This file implements
// UserService, which handles registration, sign-in, and issuing/refreshing
// JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/cryptox"
	"github.com/ayrahq/ayra/internal/dbx"
	"github.com/ayrahq/ayra/internal/server/auth"
	"github.com/ayrahq/ayra/internal/server/config"
	"github.com/ayrahq/ayra/internal/server/models"
	"github.com/ayrahq/ayra/internal/server/repositories/repomanager"
)

const minPasswordLength = 6

// Session is what the auth endpoints hand back: the user plus a fresh token
// pair and the access-token expiry.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserService provides authentication-related operations:
// - Register: create accounts (registration doubles as sign-in)
// - Login: verify credentials and mint tokens
// - Refresh: rotate refresh tokens and mint new access tokens
// - Logout: revoke every refresh token the user holds
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new account and signs it in. Email confirmation is not
// implemented; the redirect address clients send is accepted and ignored.
func (s *UserService) Register(ctx context.Context, email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	salt := common.GenerateRandByteArray(32)
	key := cryptox.DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	user := &models.User{Email: strings.ToLower(email), Salt: salt, Verifier: cryptox.MakeVerifier(key)}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.newSession(ctx, u, s.db)
}

// Login verifies the password against the stored verifier and, on success,
// returns a fresh Session.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	key := cryptox.DeriveKey([]byte(password), user.Salt)
	defer common.WipeByteArray(key)

	if !s.checkVerifier(user.Verifier, cryptox.MakeVerifier(key)) {
		return nil, common.ErrorUnauthorized
	}
	return s.newSession(ctx, user, s.db)
}

// Refresh validates a refresh token, rotates it transactionally, and returns
// a fresh Session. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var session *Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		session, genErr = s.newSession(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout revokes every refresh token the user holds.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

// --- helpers below ---

func validateCredentials(email, password string) error {
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return common.ErrorInvalidEmailFormat
	}
	if len(password) < minPasswordLength {
		return common.ErrorInvalidPasswordFormat
	}
	return nil
}

func (s *UserService) checkVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}

func (s *UserService) newSession(ctx context.Context, user *models.User, tx dbx.DBTX) (*Session, error) {
	expiresAt := time.Now().Add(s.accessTokenValidityDuration)

	access, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &Session{User: user, AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}
