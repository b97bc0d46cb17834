package accounts

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agendly/agendly/internal/domain"
)

// TokenManager issues and verifies the HS256 bearer tokens used on provider
// routes. The subject claim carries the user id.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    domain.Clock
}

func NewTokenManager(secret string, ttl time.Duration, now domain.Clock) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if now == nil {
		now = domain.SystemClock
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: now}
}

func (m *TokenManager) Issue(userID string) (string, error) {
	issuedAt := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
	})
	return token.SignedString(m.secret)
}

// Verify parses a token and returns the user id it was issued for.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil || !token.Valid {
		return "", domain.NewUnauthorizedError("Invalid or expired token", "INVALID_TOKEN")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.NewUnauthorizedError("Invalid or expired token", "INVALID_TOKEN")
	}
	return claims.Subject, nil
}
