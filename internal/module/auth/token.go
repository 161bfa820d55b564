package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/karirkit/karirkit/internal/domain"
)

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService returns a TokenService signing with HS256.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given user. Returns the token
// string and its expiry time.
func (s *TokenService) Issue(userID, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.expiry)
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses and validates a token, returning the user ID and role.
// Implements middleware.TokenVerifier.
func (s *TokenService) Verify(tokenString string) (string, string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", domain.NewAppError(domain.CodeUnauthorized, "invalid or expired token", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", domain.ErrUnauthorized
	}
	return claims.Subject, claims.Role, nil
}
