package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	require.True(t, VerifyPassword(hash, "correct horse battery staple"))
	require.False(t, VerifyPassword(hash, "wrong password"))
	require.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("samepassword")
	require.NoError(t, err)
	second, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, VerifyPassword(first, "samepassword"))
	require.True(t, VerifyPassword(second, "samepassword"))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestHashPasswordRejectsOversized(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", maxPasswordLength+1))
	require.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	require.False(t, VerifyPassword("", "password"))
	require.False(t, VerifyPassword("not-a-hash", "password"))
	require.False(t, VerifyPassword("$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", "password"))
}
