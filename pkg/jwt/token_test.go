package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := NewTokenService("secret", "koperasi-api", time.Hour)

	token, err := svc.GenerateToken("65a1b2c3d4e5f6a7b8c9d0e1", "siti@example.com", "member")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "65a1b2c3d4e5f6a7b8c9d0e1", claims.Subject)
	require.Equal(t, "siti@example.com", claims.Email)
	require.Equal(t, "member", claims.Role)
	require.Equal(t, "koperasi-api", claims.Issuer)
}

func TestParseTokenExpired(t *testing.T) {
	svc := NewTokenService("secret", "koperasi-api", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken("user-1", "a@b.c", "member")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("one", "x", time.Hour).GenerateToken("user-1", "a@b.c", "member")
	require.NoError(t, err)

	_, err = NewTokenService("two", "x", time.Hour).ParseToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret", "x", time.Hour).ParseToken(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
