package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest. Two calls with the same
// plaintext yield different digests; equality comparison of digests is
// meaningless and CheckPassword must be used instead.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches digest. A corrupted or
// truncated digest is treated as a mismatch, never an error.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
