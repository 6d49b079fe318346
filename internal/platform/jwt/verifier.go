package jwtmw

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every verification failure (malformed, bad signature, expired, missing claims).
var ErrInvalidToken = errors.New("invalid token")

// Verifier checks a token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// hmacVerifier verifies HS256 tokens against a shared secret.
type hmacVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a Verifier for tokens signed with secret.
func NewVerifier(secret string) *hmacVerifier {
	return &hmacVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify parses the token, checks the signature and expiry, and returns the claims.
// It returns ErrSecretNotConfigured when the verifier has no secret.
func (v *hmacVerifier) Verify(tokenStr string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username claim", ErrInvalidToken)
	}

	return claims, nil
}
