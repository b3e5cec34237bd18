package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 2 * time.Hour

// ErrInvalidToken covers every verification failure uniformly: bad
// signature, malformed encoding, expired, or claims that do not fit the
// expected shape. Callers get no detail about which check failed.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	AccountID string `json:"id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the bearer tokens of this service. Tokens are
// stateless: there is no revocation before expiry.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *Tokens) Issue(accountID, username string, role Role) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		AccountID: accountID,
		Username:  username,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Parse verifies signature and expiry and validates the claim shape.
// Tokens carrying an empty id or username, an unknown role, or no expiry
// are rejected even when the signature is good.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AccountID == "" || claims.Username == "" || !claims.Role.Known() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
