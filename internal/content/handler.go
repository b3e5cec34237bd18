package content

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/julienschmidt/httprouter"

	"pressgate/internal/httpx"
)

// ListHandler is the public read surface; no auth, drafts included.
type ListHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.FindAll(r.Context())
	if err != nil {
		h.Logger.Error("list content", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

type CreateHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		Body   string `json:"body"`
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		httpx.Error(w, http.StatusBadRequest, "Missing title")
		return
	}
	if req.Status != "" && !req.Status.Known() {
		httpx.Error(w, http.StatusBadRequest, "Unknown status")
		return
	}
	item := &Item{
		Title:  req.Title,
		Body:   req.Body,
		Status: req.Status,
	}
	if err := h.Store.Insert(r.Context(), item); err != nil {
		h.Logger.Error("insert content", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Created",
		"item":    item,
	})
}

type UpdateHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	var req struct {
		Title  string `json:"title"`
		Body   string `json:"body"`
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if req.Status != "" && !req.Status.Known() {
		httpx.Error(w, http.StatusBadRequest, "Unknown status")
		return
	}
	p := Patch{}
	if req.Title != "" {
		p.Title = &req.Title
	}
	if req.Body != "" {
		p.Body = &req.Body
	}
	if req.Status != "" {
		p.Status = &req.Status
	}
	item, err := h.Store.Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Not found")
			return
		}
		h.Logger.Error("update content", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Updated",
		"item":    item,
	})
}

type DeleteHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Not found")
			return
		}
		h.Logger.Error("delete content", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
