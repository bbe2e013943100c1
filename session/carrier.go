package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed session-carrier payload handed to the client. It
// mirrors the server-side session so a read can be served from the
// carrier alone, with the store consulted only for revocation.
type Claims struct {
	SessionID    string `json:"sid"`
	UserID       string `json:"uid"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	jwt.RegisteredClaims
}

// Carrier signs and verifies the session-carrier token.
type Carrier struct {
	secret []byte
	ttl    time.Duration
}

// NewCarrier creates a carrier signing with the given secret. TTL bounds
// the carrier's own validity; it matches the session's fixed window.
func NewCarrier(secret string, ttl time.Duration) *Carrier {
	return &Carrier{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a carrier token for the session.
func (c *Carrier) Issue(s Session) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID:    s.ID,
		UserID:       s.UserID,
		Email:        s.Email,
		Name:         s.Name,
		Role:         s.Role,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session carrier: %w", err)
	}
	return signed, nil
}

// Parse verifies a carrier token and returns its claims. Expired or
// tampered tokens fail.
func (c *Carrier) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session carrier: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid session carrier claims")
	}
	return claims, nil
}

// TTL returns the configured session validity window.
func (c *Carrier) TTL() time.Duration {
	return c.ttl
}
