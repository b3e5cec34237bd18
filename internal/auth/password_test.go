package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("pw123")
	require.NoError(t, err)
	assert.True(t, CheckPassword("pw123", digest))
	assert.False(t, CheckPassword("pw124", digest))
}

func TestHashPasswordFreshSalt(t *testing.T) {
	first, err := HashPassword("pw123")
	require.NoError(t, err)
	second, err := HashPassword("pw123")
	require.NoError(t, err)

	// Fresh salt per call: digests differ but both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("pw123", first))
	assert.True(t, CheckPassword("pw123", second))
}

func TestCheckPasswordMalformedDigest(t *testing.T) {
	assert.False(t, CheckPassword("pw123", ""))
	assert.False(t, CheckPassword("pw123", "not-a-bcrypt-digest"))
	assert.False(t, CheckPassword("pw123", "$2a$10$truncated"))
}
