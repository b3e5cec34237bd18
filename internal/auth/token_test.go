package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens(secret string) *Tokens {
	return NewTokens(secret, DefaultTokenTTL)
}

func TestIssueAndParse(t *testing.T) {
	tk := testTokens("secret")
	token, err := tk.Issue("acc-1", "alice", RoleAdmin)
	require.NoError(t, err)

	claims, err := tk.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParseTamperedToken(t *testing.T) {
	tk := testTokens("secret")
	token, err := tk.Issue("acc-1", "alice", RoleUser)
	require.NoError(t, err)

	// Flip one character somewhere in the payload.
	b := []byte(token)
	for i := len(b) / 2; i < len(b); i++ {
		if b[i] == '.' {
			continue
		}
		if b[i] == 'a' {
			b[i] = 'b'
		} else {
			b[i] = 'a'
		}
		break
	}
	_, err = tk.Parse(string(b))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := testTokens("secret-a").Issue("acc-1", "alice", RoleUser)
	require.NoError(t, err)
	_, err = testTokens("secret-b").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTTLBoundary(t *testing.T) {
	tk := testTokens("secret")
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return issuedAt }

	token, err := tk.Issue("acc-1", "alice", RoleUser)
	require.NoError(t, err)

	tk.now = func() time.Time { return issuedAt.Add(1*time.Hour + 59*time.Minute) }
	_, err = tk.Parse(token)
	assert.NoError(t, err)

	tk.now = func() time.Time { return issuedAt.Add(2*time.Hour + 1*time.Minute) }
	_, err = tk.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMalformedClaims(t *testing.T) {
	tk := testTokens("secret")
	sign := func(claims Claims) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := tok.SignedString(tk.secret)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(tk.now().Add(time.Hour))

	cases := map[string]Claims{
		"empty id":     {Username: "alice", Role: RoleUser, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}},
		"empty name":   {AccountID: "acc-1", Role: RoleUser, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}},
		"unknown role": {AccountID: "acc-1", Username: "alice", Role: "root", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}},
		"no expiry":    {AccountID: "acc-1", Username: "alice", Role: RoleUser},
	}
	for name, claims := range cases {
		_, err := tk.Parse(sign(claims))
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestParseGarbage(t *testing.T) {
	tk := testTokens("secret")
	for _, s := range []string{"", "x", "a.b.c", "not a token at all"} {
		_, err := tk.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
