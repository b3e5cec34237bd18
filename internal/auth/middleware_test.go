package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, wantUsername string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantUsername, id.Username)
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareMissingHeader(t *testing.T) {
	tk := testTokens("secret")
	h := Middleware(tk)(okHandler(t, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Missing token"}`, rec.Body.String())
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	tk := testTokens("secret")
	token, err := tk.Issue("acc-1", "alice", RoleUser)
	require.NoError(t, err)
	h := Middleware(tk)(okHandler(t, ""))

	for _, header := range []string{token, "Bearer " + token + " extra"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	tk := testTokens("secret")
	h := Middleware(tk)(okHandler(t, ""))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	tk := testTokens("secret")
	token, err := tk.Issue("acc-1", "alice", RoleUser)
	require.NoError(t, err)
	h := Middleware(tk)(okHandler(t, "alice"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tk := testTokens("secret")
	h := Middleware(tk)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	userToken, err := tk.Issue("acc-1", "bob", RoleUser)
	require.NoError(t, err)
	adminToken, err := tk.Issue("acc-2", "alice", RoleAdmin)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutMiddleware(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
