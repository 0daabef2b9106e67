// Package httpapi exposes the Ayra services over HTTP/JSON: the identity
// endpoints, the item and category stores, and presigned file transfers.
package httpapi

import (
	"time"

	"github.com/ayrahq/ayra/internal/server/models"
	"github.com/ayrahq/ayra/internal/server/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         userResponse `json:"user"`
}

func toSessionResponse(s *services.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User:         userResponse{ID: s.User.ID, Email: s.User.Email},
	}
}

type credentialsRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirect_to"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type itemResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	URL        string    `json:"url,omitempty"`
	FileKey    string    `json:"file_key,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toItemResponse(item *models.Item) itemResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return itemResponse{
		ID:         item.ID,
		Title:      item.Title,
		Type:       item.Type,
		Content:    item.Content,
		Tags:       tags,
		URL:        item.URL,
		FileKey:    item.FileKey,
		CategoryID: item.CategoryID,
		CreatedAt:  item.CreatedAt,
	}
}

type createItemRequest struct {
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	URL        string   `json:"url"`
	FileKey    string   `json:"file_key"`
	CategoryID string   `json:"category_id"`
}

type backdateRequest struct {
	CreatedAt time.Time `json:"created_at"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type presignUploadRequest struct {
	Name string `json:"name"`
}

type presignUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type presignDownloadResponse struct {
	URL string `json:"url"`
}
