package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/server/models"
)

func (s *Server) handleItemsExist(w http.ResponseWriter, r *http.Request) {
	exists, err := s.items.HasAny(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existsResponse{Exists: exists})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.List(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "title and type are required")
		return
	}

	item, err := s.items.Create(r.Context(), &models.Item{
		UserID:     userID(r.Context()),
		Title:      req.Title,
		Type:       req.Type,
		Content:    req.Content,
		Tags:       req.Tags,
		URL:        req.URL,
		FileKey:    req.FileKey,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleBackdateItem(w http.ResponseWriter, r *http.Request) {
	var req backdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CreatedAt.IsZero() {
		writeError(w, http.StatusBadRequest, "created_at is required")
		return
	}

	id := chi.URLParam(r, "id")
	err := s.items.Backdate(r.Context(), userID(r.Context()), id, req.CreatedAt)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	cat, err := s.categories.Create(r.Context(), userID(r.Context()), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{ID: cat.ID, Name: cat.Name})
}

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	var req presignUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, url, err := s.files.GetPresignedPutURL(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.logger.Debug(r.Context(), "presigned upload", "name", req.Name, "key", key)
	writeJSON(w, http.StatusOK, presignUploadResponse{Key: key, URL: url})
}

func (s *Server) handlePresignDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.writeServiceError(w, r, common.ErrorNotFound)
		return
	}

	url, err := s.files.GetPresignedGetURL(r.Context(), key)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presignDownloadResponse{URL: url})
}
