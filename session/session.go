// Package session holds authenticated back-office sessions. The store is
// explicit and passed to every consumer that needs identity; there is no
// ambient process-wide session state.
package session

import (
	"context"
	"time"

	"github.com/lumosdigital/backoffice/auth"
)

// Session is the server-side record of an authenticated sign-in. It has a
// fixed validity window: no sliding renewal, and the refresh token is
// stored verbatim but never acted upon.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the session's validity window has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// User projects the session back into the user-facing view. Pure and
// side-effect free; called on every session read.
func (s *Session) User() auth.NormalizedUser {
	return auth.NormalizedUser{
		ID:           s.UserID,
		Email:        s.Email,
		Name:         s.Name,
		Role:         s.Role,
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}

// New builds a session for a freshly normalized user.
func New(id string, user auth.NormalizedUser, now time.Time, ttl time.Duration) Session {
	return Session{
		ID:           id,
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		AccessToken:  user.Token,
		RefreshToken: user.RefreshToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// Store defines how sessions are stored and retrieved. Get returns
// (nil, nil) for a session that does not exist or has expired.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
