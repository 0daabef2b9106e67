package privacy

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/ayrahq/ayra/internal/client/storage"
	"github.com/ayrahq/ayra/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) storage.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv_store (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return storage.NewSQLiteRepository(db)
}

func newCoordinator(t *testing.T) (*Coordinator, *time.Time) {
	t.Helper()
	c := NewCoordinator(setupStore(t), logging.NewJSON(io.Discard), time.Minute)
	current := time.Unix(10_000, 0)
	c.now = func() time.Time { return current }
	return c, &current
}

func TestInitialState_LockedWithoutPassword(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	assert.False(t, c.HasPassword(ctx))
	assert.False(t, c.Unlocked())
	assert.False(t, c.Unlock(ctx, "anything"), "unlock must fail with no password set")
}

func TestSetPassword_ThenUnlock(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "hunter2"))
	assert.True(t, c.HasPassword(ctx))
	assert.False(t, c.Unlocked(), "setting a password must leave the partition locked")

	assert.True(t, c.Unlock(ctx, "hunter2"))
	assert.True(t, c.Unlocked())
}

func TestUnlock_WrongPassword_LeavesStateUnchanged(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "hunter2"))
	require.True(t, c.Unlock(ctx, "hunter2"))

	assert.False(t, c.Unlock(ctx, "wrong"))
	assert.True(t, c.Unlocked(), "a failed attempt must not reset a valid unlock window")
}

func TestUnlocked_LazyExpiry(t *testing.T) {
	c, current := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "pw"))
	require.True(t, c.Unlock(ctx, "pw"))

	*current = current.Add(59 * time.Second)
	assert.True(t, c.Unlocked(), "still inside the window")

	*current = current.Add(time.Second)
	assert.False(t, c.Unlocked(), "at the expiry instant the window is closed")
	assert.False(t, c.Unlocked(), "and stays closed on subsequent checks")
}

func TestLock_Immediate(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "pw"))
	require.True(t, c.Unlock(ctx, "pw"))

	c.Lock()
	assert.False(t, c.Unlocked())
}

func TestChangePassword(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "old"))

	assert.False(t, c.ChangePassword(ctx, "nope", "new"), "wrong old password must be rejected")
	assert.True(t, c.Unlock(ctx, "old"), "old password still valid after failed change")

	assert.True(t, c.ChangePassword(ctx, "old", "new"))
	assert.False(t, c.Unlocked(), "a successful change re-locks")
	assert.False(t, c.Unlock(ctx, "old"))
	assert.True(t, c.Unlock(ctx, "new"))
}

func TestReset_ClearsEverything(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "pw"))
	require.True(t, c.Unlock(ctx, "pw"))

	require.NoError(t, c.Reset(ctx))
	assert.False(t, c.HasPassword(ctx))
	assert.False(t, c.Unlocked())
	assert.False(t, c.Unlock(ctx, "pw"))
}

func TestScheduledRelock_SupersededTimerIsNoOp(t *testing.T) {
	c, current := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "pw"))
	require.True(t, c.Unlock(ctx, "pw"))
	firstExpiry := c.expiry

	// Unlock again: a new window supersedes the first timer's target state.
	*current = current.Add(30 * time.Second)
	require.True(t, c.Unlock(ctx, "pw"))

	c.relockAt(firstExpiry) // the stale callback firing late
	assert.True(t, c.Unlocked(), "a superseded relock callback must be a no-op")

	c.relockAt(c.expiry) // the current callback firing on time
	assert.False(t, c.Unlocked())
}

func TestChecksum_DeterministicAndLegacyCompatible(t *testing.T) {
	assert.Equal(t, checksum("abc"), checksum("abc"))
	assert.NotEqual(t, checksum("abc"), checksum("abd"))
	// the fold is a signed 32-bit rolling hash; "a" folds to its byte value
	assert.Equal(t, "97", checksum("a"))
}
