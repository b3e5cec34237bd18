package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/httpx"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerHandler creates a self-service account with the user role.
// The duplicate check is atomic inside the store; the handler only maps
// the sentinel to a 409.
func registerHandler(store accounts.Store, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			httpx.Error(w, http.StatusBadRequest, "Missing fields")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			logger.Error("hash password", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal error")
			return
		}
		a := &accounts.Account{
			Username:     req.Username,
			PasswordHash: hash,
			Role:         auth.RoleUser,
		}
		if err := store.Insert(r.Context(), a); err != nil {
			if errors.Is(err, accounts.ErrDuplicate) {
				httpx.Error(w, http.StatusConflict, "User exists")
				return
			}
			logger.Error("register account", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal error")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"message": "Registered"})
	})
}

// loginHandler checks credentials and mints a bearer token. Unknown
// username and wrong password produce the identical response so the
// endpoint cannot be used to probe for accounts.
func loginHandler(store accounts.Store, tokens *auth.Tokens, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			httpx.Error(w, http.StatusBadRequest, "Missing fields")
			return
		}
		a, err := store.FindByUsername(r.Context(), req.Username)
		if err != nil {
			if !errors.Is(err, accounts.ErrNotFound) {
				logger.Error("find account", "err", err)
				httpx.Error(w, http.StatusInternalServerError, "Internal error")
				return
			}
			httpx.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if !auth.CheckPassword(req.Password, a.PasswordHash) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		token, err := tokens.Issue(a.ID, a.Username, a.Role)
		if err != nil {
			logger.Error("issue token", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal error")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]interface{}{
			"token": token,
			"user":  a.Public(),
		})
	})
}
