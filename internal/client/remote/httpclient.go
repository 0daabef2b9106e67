package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ayrahq/ayra/internal/client/models"
	"github.com/ayrahq/ayra/internal/common"
)

// HTTPClient implements Client against the Ayra HTTP API.
//
// It holds the current access/refresh token pair. When a call fails with an
// expired access token, the pair is rotated via the refresh endpoint and the
// call is retried exactly once, mirroring what the web client's SDK did
// transparently.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetTokens installs a token pair restored from local storage.
func (c *HTTPClient) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *HTTPClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         models.User `json:"user"`
}

func (r sessionResponse) session() *models.Session {
	return &models.Session{
		User:         r.User,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
	}
}

// do performs one JSON round trip. A nil out skips body decoding.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	err := c.doOnce(ctx, method, path, in, out, authed)
	if err == nil || !authed {
		return err
	}
	if !errors.Is(err, common.ErrTokenExpired) {
		return err
	}

	_, refresh := c.tokens()
	if refresh == "" {
		return common.ErrorUnauthorized
	}
	if _, rerr := c.Refresh(ctx, refresh); rerr != nil {
		return rerr
	}
	return c.doOnce(ctx, method, path, in, out, authed)
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		access, _ := c.tokens()
		if access != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+access)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if er.Error == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	}
	if er.Error != "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, er.Error)
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}

type credentialsRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password, redirectTo string) (*models.Session, error) {
	var sr sessionResponse
	req := credentialsRequest{Email: email, Password: password, RedirectTo: redirectTo}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &sr, false); err != nil {
		return nil, err
	}
	c.SetTokens(sr.AccessToken, sr.RefreshToken)
	return sr.session(), nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var sr sessionResponse
	req := credentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", req, &sr, false); err != nil {
		return nil, err
	}
	c.SetTokens(sr.AccessToken, sr.RefreshToken)
	return sr.session(), nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	var sr sessionResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &sr, false); err != nil {
		return nil, err
	}
	c.SetTokens(sr.AccessToken, sr.RefreshToken)
	return sr.session(), nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	_, refresh := c.tokens()
	err := c.do(ctx, http.MethodPost, "/api/auth/signout", refreshRequest{RefreshToken: refresh}, nil, true)
	c.SetTokens("", "")
	return err
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

func (c *HTTPClient) HasItems(ctx context.Context) (bool, error) {
	var er existsResponse
	if err := c.do(ctx, http.MethodGet, "/api/items/exists", nil, &er, true); err != nil {
		return false, err
	}
	return er.Exists, nil
}

func (c *HTTPClient) CreateItem(ctx context.Context, item models.NewItem) (*models.Item, error) {
	var out models.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", item, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

type backdateRequest struct {
	CreatedAt time.Time `json:"created_at"`
}

func (c *HTTPClient) BackdateItem(ctx context.Context, id string, createdAt time.Time) error {
	path := "/api/items/" + id + "/created-at"
	return c.do(ctx, http.MethodPatch, path, backdateRequest{CreatedAt: createdAt}, nil, true)
}

func (c *HTTPClient) ListItems(ctx context.Context) ([]models.Item, error) {
	var out []models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (c *HTTPClient) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var out models.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", createCategoryRequest{Name: name}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

type presignUploadRequest struct {
	Name string `json:"name"`
}

type presignUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadFile asks the API for a presigned destination and PUTs the payload
// there. The returned key is what item records reference.
func (c *HTTPClient) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	var pr presignUploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/files/presign-upload", presignUploadRequest{Name: name}, &pr, true); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, pr.URL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload %s: unexpected status %d", name, resp.StatusCode)
	}

	return pr.Key, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil, false)
}

var _ Client = (*HTTPClient)(nil)
