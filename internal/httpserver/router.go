package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/julienschmidt/httprouter"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/content"
)

func NewRouter(
	logger *slog.Logger,
	tokens *auth.Tokens,
	accountStore accounts.Store,
	itemStore content.Store,
) http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))

	// Public auth surface
	router.Handler(http.MethodPost, "/auth/register", registerHandler(accountStore, logger))
	router.Handler(http.MethodPost, "/auth/login", loginHandler(accountStore, tokens, logger))

	secured := auth.Middleware(tokens)
	admin := func(h http.Handler) http.Handler {
		return secured(auth.RequireAdmin(h))
	}

	router.Handler(http.MethodGet, "/me", secured(&accounts.MeHandler{Store: accountStore, Logger: logger}))

	// Admin user management
	router.Handler(http.MethodGet, "/users", admin(&accounts.ListHandler{Store: accountStore, Logger: logger}))
	router.Handler(http.MethodPost, "/users", admin(&accounts.CreateHandler{Store: accountStore, Logger: logger}))
	router.Handler(http.MethodPut, "/users/:id", admin(&accounts.UpdateHandler{Store: accountStore, Logger: logger}))
	router.Handler(http.MethodDelete, "/users/:id", admin(&accounts.DeleteHandler{Store: accountStore, Logger: logger}))

	// Content: public reads, admin writes
	router.Handler(http.MethodGet, "/content", &content.ListHandler{Store: itemStore, Logger: logger})
	router.Handler(http.MethodPost, "/content", admin(&content.CreateHandler{Store: itemStore, Logger: logger}))
	router.Handler(http.MethodPut, "/content/:id", admin(&content.UpdateHandler{Store: itemStore, Logger: logger}))
	router.Handler(http.MethodDelete, "/content/:id", admin(&content.DeleteHandler{Store: itemStore, Logger: logger}))

	return withCORS(router)
}

// withCORS is deliberately permissive; the service fronts a local demo UI.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
