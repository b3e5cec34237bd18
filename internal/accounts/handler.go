package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/julienschmidt/httprouter"

	"pressgate/internal/auth"
	"pressgate/internal/httpx"
)

// MeHandler returns the live record behind the caller's token. The account
// may have been deleted after the token was issued, hence the 404 path.
type MeHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Missing token")
		return
	}
	a, err := h.Store.FindByID(r.Context(), id.AccountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("find account", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, a.Public())
}

type ListHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	all, err := h.Store.FindAll(r.Context())
	if err != nil {
		h.Logger.Error("list accounts", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	out := make([]Public, 0, len(all))
	for i := range all {
		out = append(out, all[i].Public())
	}
	httpx.JSON(w, http.StatusOK, out)
}

// CreateHandler is the admin-initiated variant of registration: the role is
// caller-chosen and defaults to user.
type CreateHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string    `json:"username"`
		Password string    `json:"password"`
		Role     auth.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleUser
	}
	if !req.Role.Known() {
		httpx.Error(w, http.StatusBadRequest, "Unknown role")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Logger.Error("hash password", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	a := &Account{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.Store.Insert(r.Context(), a); err != nil {
		if errors.Is(err, ErrDuplicate) {
			httpx.Error(w, http.StatusConflict, "User exists")
			return
		}
		h.Logger.Error("insert account", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User created",
		"user":    a.Public(),
	})
}

type UpdateHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	var req struct {
		Username string    `json:"username"`
		Password string    `json:"password"`
		Role     auth.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if req.Role != "" && !req.Role.Known() {
		httpx.Error(w, http.StatusBadRequest, "Unknown role")
		return
	}
	p := Patch{}
	if req.Username != "" {
		p.Username = &req.Username
	}
	if req.Role != "" {
		p.Role = &req.Role
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.Logger.Error("hash password", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal error")
			return
		}
		p.PasswordHash = &hash
	}
	if _, err := h.Store.Update(r.Context(), id, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, ErrDuplicate) {
			httpx.Error(w, http.StatusConflict, "User exists")
			return
		}
		h.Logger.Error("update account", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "User updated"})
}

type DeleteHandler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("delete account", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
