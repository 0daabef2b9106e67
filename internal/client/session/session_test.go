package session

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayrahq/ayra/internal/client/cache"
	"github.com/ayrahq/ayra/internal/client/models"
	"github.com/ayrahq/ayra/internal/client/storage"
	"github.com/ayrahq/ayra/internal/common"
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

// fakeClient implements remote.Client for bootstrapper tests. Only the
// identity methods matter here.
type fakeClient struct {
	SignInRet  *models.Session
	SignInErr  error
	SignUpRet  *models.Session
	SignUpErr  error
	RefreshRet *models.Session
	RefreshErr error
	SignOutErr error

	LastSignInEmail    string
	LastSignInPassword string
	LastSignUpRedirect string
	LastRefreshToken   string
	SignOutCalls       int
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SignUp(ctx context.Context, email, password, redirectTo string) (*models.Session, error) {
	f.LastSignUpRedirect = redirectTo
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	f.LastSignInEmail = email
	f.LastSignInPassword = password
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	f.LastRefreshToken = refreshToken
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.SignOutCalls++
	return f.SignOutErr
}

func (f *fakeClient) HasItems(ctx context.Context) (bool, error) { return false, nil }
func (f *fakeClient) CreateItem(ctx context.Context, item models.NewItem) (*models.Item, error) {
	return nil, errors.New("not used")
}
func (f *fakeClient) BackdateItem(ctx context.Context, id string, createdAt time.Time) error {
	return nil
}
func (f *fakeClient) ListItems(ctx context.Context) ([]models.Item, error) { return nil, nil }
func (f *fakeClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}
func (f *fakeClient) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	return nil, errors.New("not used")
}
func (f *fakeClient) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	return "", errors.New("not used")
}
func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func testSession(email string) *models.Session {
	return &models.Session{
		User:         models.User{ID: "user-1", Email: email},
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func newBootstrapper(t *testing.T, store storage.Repository, client *fakeClient, opts Options) *Bootstrapper {
	t.Helper()
	if opts.KeyPath == "" {
		opts.KeyPath = filepath.Join(t.TempDir(), "session.key")
	}
	return NewBootstrapper(store, client, cache.New(time.Minute), logging.NewJSON(io.Discard), opts)
}

func expectEvent(t *testing.T, b *Bootstrapper, want Event) {
	t.Helper()
	select {
	case got := <-b.Events():
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("no %q event", want)
	}
}

func expectNoEvent(t *testing.T, b *Bootstrapper) {
	t.Helper()
	select {
	case got := <-b.Events():
		t.Fatalf("unexpected event %q", got)
	default:
	}
}

func TestUnknownPhase_BeforeInitialize(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{}
	keyPath := filepath.Join(t.TempDir(), "session.key")

	// persist a session via a first bootstrapper
	first := newBootstrapper(t, store, client, Options{KeyPath: keyPath})
	require.NoError(t, first.persistSession(context.Background(), testSession("a@b.c")))

	b := newBootstrapper(t, store, client, Options{KeyPath: keyPath})
	assert.False(t, b.Initialized())
	assert.False(t, b.IsAuthenticated(), "persisted token must not count before the restore completes")
	assert.Nil(t, b.CurrentUser())
	assert.Nil(t, b.CurrentSession())
}

func TestInitialize_NoPersistedSession(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{}
	b := newBootstrapper(t, store, client, Options{})

	require.NoError(t, b.Initialize(context.Background()))
	assert.True(t, b.Initialized())
	assert.False(t, b.IsAuthenticated())
	expectNoEvent(t, b)
}

func TestInitialize_RestoresPersistedSession(t *testing.T) {
	store := setupStore(t)
	keyPath := filepath.Join(t.TempDir(), "session.key")

	client := &fakeClient{RefreshRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{KeyPath: keyPath})
	require.NoError(t, b.persistSession(context.Background(), testSession("a@b.c")))

	require.NoError(t, b.Initialize(context.Background()))

	assert.Equal(t, "refresh-1", client.LastRefreshToken, "restore must revalidate with the provider")
	assert.True(t, b.IsAuthenticated())
	require.NotNil(t, b.CurrentUser())
	assert.Equal(t, "a@b.c", b.CurrentUser().Email)
	expectEvent(t, b, EventInitialSession)
	expectNoEvent(t, b)
}

func TestInitialize_RejectedSessionStartsSignedOut(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	client := &fakeClient{RefreshErr: common.ErrorUnauthorized}
	b := newBootstrapper(t, store, client, Options{})
	require.NoError(t, b.persistSession(ctx, testSession("a@b.c")))

	require.NoError(t, b.Initialize(ctx))
	assert.True(t, b.Initialized())
	assert.False(t, b.IsAuthenticated())
	expectNoEvent(t, b)

	blob, err := store.Get(ctx, storage.KeySessionBlob)
	require.NoError(t, err)
	assert.Nil(t, blob, "rejected session must be discarded")
}

func TestInitialize_RunsOnce(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{RefreshRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{})
	require.NoError(t, b.persistSession(context.Background(), testSession("a@b.c")))

	require.NoError(t, b.Initialize(context.Background()))
	require.NoError(t, b.Initialize(context.Background()))

	expectEvent(t, b, EventInitialSession)
	expectNoEvent(t, b)
}

func TestLogin_Success(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	client := &fakeClient{SignInRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{})

	require.NoError(t, b.Login(ctx, "a@b.c", "secret"))
	assert.Equal(t, "a@b.c", client.LastSignInEmail)
	assert.True(t, b.IsAuthenticated())
	expectEvent(t, b, EventSignedIn)

	blob, err := store.Get(ctx, storage.KeySessionBlob)
	require.NoError(t, err)
	assert.NotNil(t, blob, "session must be persisted for the next launch")
}

func TestLogin_ProviderErrorIsReturned(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{SignInErr: common.ErrorUnauthorized}
	b := newBootstrapper(t, store, client, Options{})

	err := b.Login(context.Background(), "a@b.c", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.False(t, b.IsAuthenticated())
	expectNoEvent(t, b)
}

func TestLogin_SchedulesImport(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{SignInRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{ImportDelay: 10 * time.Millisecond})

	ran := make(chan struct{})
	b.SetImportRun(func(ctx context.Context) { close(ran) })

	require.NoError(t, b.Login(context.Background(), "a@b.c", "secret"))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("import was not started after sign-in")
	}
}

func TestInitialize_DoesNotScheduleImport(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{RefreshRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{ImportDelay: 5 * time.Millisecond})
	require.NoError(t, b.persistSession(context.Background(), testSession("a@b.c")))

	ran := make(chan struct{}, 1)
	b.SetImportRun(func(ctx context.Context) { ran <- struct{}{} })

	require.NoError(t, b.Initialize(context.Background()))
	time.Sleep(50 * time.Millisecond)
	select {
	case <-ran:
		t.Fatal("restored session must not re-trigger the import")
	default:
	}
}

func TestSignUp_PassesRedirect(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{}
	b := newBootstrapper(t, store, client, Options{RedirectTo: "https://app.example/confirm"})

	require.NoError(t, b.SignUp(context.Background(), "a@b.c", "secret"))
	assert.Equal(t, "https://app.example/confirm", client.LastSignUpRedirect)
	// confirmation pending: no session yet
	assert.False(t, b.IsAuthenticated())
	expectNoEvent(t, b)
}

func TestSignUp_AutoConfirmedActsAsSignIn(t *testing.T) {
	store := setupStore(t)
	client := &fakeClient{SignUpRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{})

	require.NoError(t, b.SignUp(context.Background(), "a@b.c", "secret"))
	assert.True(t, b.IsAuthenticated())
	expectEvent(t, b, EventSignedIn)
}

func TestLogout_ClearsEverything(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	client := &fakeClient{SignInRet: testSession("a@b.c")}
	b := newBootstrapper(t, store, client, Options{})

	require.NoError(t, b.Login(ctx, "a@b.c", "secret"))
	expectEvent(t, b, EventSignedIn)

	b.cache.Set("items", []string{"cached"})
	require.NoError(t, b.Logout(ctx))

	assert.Equal(t, 1, client.SignOutCalls)
	assert.False(t, b.IsAuthenticated())
	assert.Nil(t, b.CurrentUser())
	assert.Equal(t, 0, b.cache.Len())
	expectEvent(t, b, EventSignedOut)

	blob, err := store.Get(ctx, storage.KeySessionBlob)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestLogout_RemoteFailureStillClearsLocalState(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	client := &fakeClient{SignInRet: testSession("a@b.c"), SignOutErr: errors.New("network down")}
	b := newBootstrapper(t, store, client, Options{})

	require.NoError(t, b.Login(ctx, "a@b.c", "secret"))
	expectEvent(t, b, EventSignedIn)

	require.NoError(t, b.Logout(ctx))
	assert.False(t, b.IsAuthenticated())
	expectEvent(t, b, EventSignedOut)
}

func TestLoadSession_CorruptBlobDiscarded(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeySessionBlob, []byte("garbage")))
	require.NoError(t, store.Set(ctx, storage.KeySessionNonce, []byte("123456789012")))

	client := &fakeClient{}
	b := newBootstrapper(t, store, client, Options{})

	require.NoError(t, b.Initialize(ctx))
	assert.False(t, b.IsAuthenticated())

	blob, err := store.Get(ctx, storage.KeySessionBlob)
	require.NoError(t, err)
	assert.Nil(t, blob)
}
