// Package session owns the client's authentication lifecycle: signing in and
// up against the identity provider, restoring a persisted session at startup,
// and announcing transitions to the rest of the client. Until the first
// restore attempt has completed the session state is deliberately unknown and
// every accessor reports signed-out.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ayrahq/ayra/internal/client/cache"
	"github.com/ayrahq/ayra/internal/client/models"
	"github.com/ayrahq/ayra/internal/client/remote"
	"github.com/ayrahq/ayra/internal/client/storage"
	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/cryptox"
	"github.com/ayrahq/ayra/internal/logging"
)

// Event is a session lifecycle transition.
type Event string

const (
	// EventInitialSession fires when a previously persisted session was
	// restored at startup. Deliberately distinct from EventSignedIn so the
	// import runner is not re-triggered on every launch.
	EventInitialSession Event = "initial_session"

	// EventSignedIn fires on an explicit, fresh sign-in.
	EventSignedIn Event = "signed_in"

	// EventSignedOut fires when the session ends.
	EventSignedOut Event = "signed_out"
)

const sessionKeySize = 32

// Options configures a Bootstrapper.
type Options struct {
	// RedirectTo is the confirmation redirect address passed on sign-up.
	RedirectTo string

	// KeyPath is where the random key sealing the persisted session lives.
	KeyPath string

	// ImportDelay is how long after a fresh sign-in the import runner is
	// started. Zero means run immediately.
	ImportDelay time.Duration
}

// Bootstrapper coordinates authentication state for the whole client.
type Bootstrapper struct {
	store  storage.Repository
	client remote.Client
	cache  *cache.Cache
	logger logging.Logger
	opts   Options

	// importRun, when set, is started once per fresh sign-in after
	// opts.ImportDelay.
	importRun   func(ctx context.Context)
	importTimer *time.Timer

	mu          sync.RWMutex
	session     *models.Session
	initialized bool

	events chan Event
}

func NewBootstrapper(store storage.Repository, client remote.Client, dataCache *cache.Cache, logger logging.Logger, opts Options) *Bootstrapper {
	return &Bootstrapper{
		store:  store,
		client: client,
		cache:  dataCache,
		logger: logger,
		opts:   opts,
		events: make(chan Event, 8),
	}
}

// SetImportRun installs the function started after each fresh sign-in.
// The runner guards itself against overlapping runs.
func (b *Bootstrapper) SetImportRun(fn func(ctx context.Context)) {
	b.importRun = fn
}

// Events exposes the lifecycle stream. The channel is buffered; a slow
// consumer loses events rather than blocking the bootstrapper.
func (b *Bootstrapper) Events() <-chan Event {
	return b.events
}

func (b *Bootstrapper) emit(ctx context.Context, e Event) {
	select {
	case b.events <- e:
	default:
		b.logger.Warn(ctx, "event dropped, consumer too slow", "event", string(e))
	}
}

// Initialize restores a previously persisted session, validates it against
// the identity provider, and flips the bootstrapper out of the unknown
// phase. It runs at most once; later calls are no-ops. A failed restore is
// not an error: the client simply starts signed out.
func (b *Bootstrapper) Initialize(ctx context.Context) error {
	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	restored, err := b.loadSession(ctx)
	if err != nil {
		return fmt.Errorf("session restore: %w", err)
	}

	var active *models.Session
	if restored != nil {
		// Always revalidate with the provider. The refresh rotates the
		// token pair, so a stale or revoked session is detected here.
		fresh, err := b.client.Refresh(ctx, restored.RefreshToken)
		if err != nil {
			b.logger.Warn(ctx, "persisted session rejected, starting signed out", "error", err)
			b.clearSession(ctx)
		} else {
			active = fresh
			if err := b.persistSession(ctx, fresh); err != nil {
				b.logger.Error(ctx, "session persist failed", "error", err)
			}
		}
	}

	b.mu.Lock()
	b.session = active
	b.initialized = true
	b.mu.Unlock()

	if active != nil {
		b.logger.Info(ctx, "session restored", "user", active.User.Email)
		b.emit(ctx, EventInitialSession)
	}
	return nil
}

// Login signs in with the identity provider. Provider failures are returned
// verbatim as errors.
func (b *Bootstrapper) Login(ctx context.Context, email, password string) error {
	sess, err := b.client.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	b.adoptSession(ctx, sess)
	b.emit(ctx, EventSignedIn)
	b.scheduleImport()
	return nil
}

// SignUp registers a new account. The provider may or may not return a live
// session depending on whether email confirmation is required; when it does,
// registration doubles as sign-in.
func (b *Bootstrapper) SignUp(ctx context.Context, email, password string) error {
	sess, err := b.client.SignUp(ctx, email, password, b.opts.RedirectTo)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	if sess != nil && sess.AccessToken != "" {
		b.adoptSession(ctx, sess)
		b.emit(ctx, EventSignedIn)
		b.scheduleImport()
	}
	return nil
}

// Logout revokes the remote session and clears all local traces. The remote
// revocation is best effort; local state is cleared regardless.
func (b *Bootstrapper) Logout(ctx context.Context) error {
	if err := b.client.SignOut(ctx); err != nil {
		b.logger.Warn(ctx, "remote sign-out failed", "error", err)
	}

	b.mu.Lock()
	b.session = nil
	if b.importTimer != nil {
		b.importTimer.Stop()
		b.importTimer = nil
	}
	b.mu.Unlock()

	b.clearSession(ctx)
	b.cache.Invalidate()
	b.emit(ctx, EventSignedOut)
	return nil
}

// Initialized reports whether the startup restore attempt has completed.
func (b *Bootstrapper) Initialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// IsAuthenticated is false during the unknown phase before Initialize,
// even when a persisted session exists on disk.
func (b *Bootstrapper) IsAuthenticated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized && b.session != nil
}

// CurrentUser returns the signed-in user, or nil when signed out or still
// in the unknown phase.
func (b *Bootstrapper) CurrentUser() *models.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized || b.session == nil {
		return nil
	}
	u := b.session.User
	return &u
}

// CurrentSession returns a copy of the active session, or nil.
func (b *Bootstrapper) CurrentSession() *models.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized || b.session == nil {
		return nil
	}
	s := *b.session
	return &s
}

func (b *Bootstrapper) adoptSession(ctx context.Context, sess *models.Session) {
	b.mu.Lock()
	b.session = sess
	b.initialized = true
	b.mu.Unlock()

	if err := b.persistSession(ctx, sess); err != nil {
		b.logger.Error(ctx, "session persist failed", "error", err)
	}
}

// scheduleImport starts the import runner after the configured delay.
// Scheduled at most once per sign-in event; the runner itself refuses to
// overlap, so a second sign-in during a run is harmless.
func (b *Bootstrapper) scheduleImport() {
	if b.importRun == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.importTimer != nil {
		b.importTimer.Stop()
	}
	b.importTimer = time.AfterFunc(b.opts.ImportDelay, func() {
		b.importRun(context.Background())
	})
}

// sessionKey loads the blob-sealing key from the key file, creating it on
// first use.
func (b *Bootstrapper) sessionKey() ([]byte, error) {
	key, err := os.ReadFile(b.opts.KeyPath)
	if err == nil {
		if len(key) != sessionKeySize {
			return nil, fmt.Errorf("session key file %s: unexpected size %d", b.opts.KeyPath, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key = common.GenerateRandByteArray(sessionKeySize)
	if err := os.WriteFile(b.opts.KeyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("write session key: %w", err)
	}
	return key, nil
}

func (b *Bootstrapper) persistSession(ctx context.Context, sess *models.Session) error {
	key, err := b.sessionKey()
	if err != nil {
		return err
	}
	ciphertext, nonce, err := cryptox.Seal(sess, key)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	if err := b.store.Set(ctx, storage.KeySessionBlob, ciphertext); err != nil {
		return err
	}
	return b.store.Set(ctx, storage.KeySessionNonce, nonce)
}

// loadSession reads and unseals the persisted session. A missing blob is not
// an error; an undecryptable one is discarded.
func (b *Bootstrapper) loadSession(ctx context.Context) (*models.Session, error) {
	blob, err := b.store.Get(ctx, storage.KeySessionBlob)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	nonce, err := b.store.Get(ctx, storage.KeySessionNonce)
	if err != nil {
		return nil, err
	}
	key, err := b.sessionKey()
	if err != nil {
		return nil, err
	}

	var sess models.Session
	if err := cryptox.Open(blob, nonce, key, &sess); err != nil {
		b.logger.Warn(ctx, "persisted session unreadable, discarding", "error", err)
		b.clearSession(ctx)
		return nil, nil
	}
	return &sess, nil
}

func (b *Bootstrapper) clearSession(ctx context.Context) {
	if err := b.store.Delete(ctx, storage.KeySessionBlob); err != nil {
		b.logger.Error(ctx, "session blob cleanup failed", "error", err)
	}
	if err := b.store.Delete(ctx, storage.KeySessionNonce); err != nil {
		b.logger.Error(ctx, "session nonce cleanup failed", "error", err)
	}
}
