// Package privacy gates the "private" partition of a library behind a
// password that is independent of the account identity, with a self-expiring
// unlock window.
//
// The persisted artifact is a checksum of the password, kept in the client's
// local store. The checksum is deliberately the same non-cryptographic
// rolling fold the legacy web client used: profiles written by it stay
// compatible, and the gate is casual obfuscation, not access control.
// Lock state and the unlock expiry live in memory only, so every process
// start begins locked.
package privacy

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ayrahq/ayra/internal/client/storage"
	"github.com/ayrahq/ayra/internal/logging"
)

// DefaultUnlockWindow is how long the partition stays open after a correct
// password entry.
const DefaultUnlockWindow = 5 * time.Minute

// Coordinator is the private-space unlock state machine. States are
// no-password-set, locked, and unlocked-until-expiry. The lazy check in
// Unlocked is the authoritative enforcement; the scheduled relock callback
// is a convenience on top of it.
type Coordinator struct {
	store  storage.Repository
	logger logging.Logger
	window time.Duration

	mu     sync.Mutex
	locked bool
	expiry time.Time // zero when no unlock window is open
	timer  *time.Timer

	// now is an injectable clock for tests.
	now func() time.Time
}

func NewCoordinator(store storage.Repository, logger logging.Logger, window time.Duration) *Coordinator {
	if window <= 0 {
		window = DefaultUnlockWindow
	}
	return &Coordinator{
		store:  store,
		logger: logger.With("module", "privacy"),
		window: window,
		locked: true,
		now:    time.Now,
	}
}

// checksum is the legacy rolling fold over the password bytes. It is not a
// secure hash and must never be treated as one.
func checksum(password string) string {
	var h int32
	for _, b := range []byte(password) {
		h = h*31 + int32(b)
	}
	return strconv.FormatInt(int64(h), 10)
}

// HasPassword reports whether a private-space password has been set.
func (c *Coordinator) HasPassword(ctx context.Context) bool {
	v, err := c.store.Get(ctx, storage.KeyPrivacyChecksum)
	if err != nil {
		c.logger.Error(ctx, "checksum read failed", "error", err)
		return false
	}
	return len(v) > 0
}

// SetPassword stores the checksum for a new password and re-locks the
// partition.
func (c *Coordinator) SetPassword(ctx context.Context, password string) error {
	if err := c.store.Set(ctx, storage.KeyPrivacyChecksum, []byte(checksum(password))); err != nil {
		return err
	}
	c.Lock()
	return nil
}

// Unlock opens the partition for the configured window when password matches
// the stored checksum. A mismatch leaves the current state untouched,
// including any still-valid unlock window.
func (c *Coordinator) Unlock(ctx context.Context, password string) bool {
	stored, err := c.store.Get(ctx, storage.KeyPrivacyChecksum)
	if err != nil {
		c.logger.Error(ctx, "checksum read failed", "error", err)
		return false
	}
	if len(stored) == 0 || string(stored) != checksum(password) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.locked = false
	c.expiry = c.now().Add(c.window)
	if c.timer != nil {
		c.timer.Stop()
	}
	expiry := c.expiry
	c.timer = time.AfterFunc(c.window, func() { c.relockAt(expiry) })
	return true
}

// relockAt is the scheduled relock callback. It is a no-op when the state it
// was scheduled for has been superseded (explicit lock, newer unlock).
func (c *Coordinator) relockAt(expiry time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked || !c.expiry.Equal(expiry) {
		return
	}
	c.locked = true
	c.expiry = time.Time{}
}

// Lock closes the partition immediately. Any pending relock callback becomes
// a no-op.
func (c *Coordinator) Lock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = true
	c.expiry = time.Time{}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Unlocked is the authoritative check: the partition is open if and only if
// an unlock expiry exists and the current time is strictly before it. When
// the expiry is observed to have passed, the state flips back to locked as a
// side effect.
func (c *Coordinator) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expiry.IsZero() {
		return false
	}
	if !c.now().Before(c.expiry) {
		c.locked = true
		c.expiry = time.Time{}
		return false
	}
	return !c.locked
}

// ChangePassword replaces the stored checksum after verifying the old
// password. It returns false, leaving everything unchanged, when the old
// password does not match. A successful change re-locks the partition.
func (c *Coordinator) ChangePassword(ctx context.Context, oldPassword, newPassword string) bool {
	stored, err := c.store.Get(ctx, storage.KeyPrivacyChecksum)
	if err != nil {
		c.logger.Error(ctx, "checksum read failed", "error", err)
		return false
	}
	if len(stored) == 0 || string(stored) != checksum(oldPassword) {
		return false
	}
	if err := c.SetPassword(ctx, newPassword); err != nil {
		c.logger.Error(ctx, "checksum write failed", "error", err)
		return false
	}
	return true
}

// Reset wipes the stored checksum and all lock state; used by account
// recovery flows. Afterwards no password is set and the partition is
// unprotected until SetPassword is called again.
func (c *Coordinator) Reset(ctx context.Context) error {
	if err := c.store.Delete(ctx, storage.KeyPrivacyChecksum); err != nil {
		return err
	}
	c.Lock()
	return nil
}
