package auth

import (
	"errors"
	"os"
	"time"

	"github.com/centerapp/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for any bearer credential that fails
// verification (bad signature, expired, malformed).
var ErrInvalidToken = errors.New("invalid token")

// Verifier resolves bearer credentials to identities. It is shared by the
// HTTP middleware and the websocket auth handshake.
type Verifier struct {
	secret []byte
}

// NewVerifier reads the signing secret from the environment, falling back to
// the development default.
func NewVerifier() *Verifier {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "supersecretjwtkey" // Must match the secret used for signing
	}
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token, returning the embedded claims.
func (v *Verifier) Verify(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issue signs a token for the given user, valid for 72 hours.
func (v *Verifier) Issue(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
