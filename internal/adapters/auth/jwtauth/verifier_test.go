package jwtauth

import (
	"context"
	"testing"
	"time"

	"vidalink/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueThenVerify_RoundTripsUser(t *testing.T) {
	cfg := Config{Secret: "s3cr3t", Issuer: "vidalink"}

	tok, err := NewIssuer(cfg).Issue(auth.Claims{UserID: "u-1", Email: "ana@example.com"}, time.Hour)
	require.NoError(t, err)

	claims, err := NewVerifier(cfg).Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestVerify_FallsBackToSubject(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-sub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cr3t"))
	require.NoError(t, err)

	claims, err := NewVerifier(Config{Secret: "s3cr3t"}).Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u-sub", claims.UserID)
}

func TestVerify_Rejects(t *testing.T) {
	good := Config{Secret: "s3cr3t", Issuer: "vidalink"}
	expired := NewIssuer(good)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, err := expired.Issue(auth.Claims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	otherKeyTok, err := NewIssuer(Config{Secret: "other", Issuer: "vidalink"}).Issue(auth.Claims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	otherIssTok, err := NewIssuer(Config{Secret: "s3cr3t", Issuer: "someone-else"}).Issue(auth.Claims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	v := NewVerifier(good)
	for name, tok := range map[string]string{
		"expired":      expiredTok,
		"wrong key":    otherKeyTok,
		"wrong issuer": otherIssTok,
		"garbage":      "not-a-jwt",
	} {
		_, err := v.Verify(context.Background(), tok)
		assert.Error(t, err, name)
	}

	_, err = v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	_, err = NewVerifier(Config{}).Verify(context.Background(), expiredTok)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
