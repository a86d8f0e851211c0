package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors.
var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the identity embedded in a connection token.
type Claims struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	jwt.RegisteredClaims
}

// Verifier signs and verifies connection tokens with an HS256 secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign issues a token for a user. Mainly used by tests and tooling; token
// issuance normally belongs to the auth service.
func (v *Verifier) Sign(userID, userName string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify checks the token signature and extracts the claims. A token without
// a user ID is rejected even if the signature is valid.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}

	return *claims, nil
}
