package auth

import (
	"testing"
	"time"

	"github.com/centerapp/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestVerifierIssueAndVerify(t *testing.T) {
	v := NewVerifier()

	token, err := v.Issue(&models.User{ID: 7, Email: "user@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint(7), claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
}

func TestVerifierRejectsGarbage(t *testing.T) {
	v := NewVerifier()

	_, err := v.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	v := NewVerifier()

	claims := &models.JwtCustomClaims{
		UserID: 1,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("a-different-secret"))
	require.NoError(t, err)

	_, err = v.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierRejectsExpiredToken(t *testing.T) {
	v := NewVerifier()

	claims := &models.JwtCustomClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("supersecretjwtkey"))
	require.NoError(t, err)

	_, err = v.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
