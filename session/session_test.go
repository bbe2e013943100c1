package session

import (
	"testing"
	"time"

	"github.com/lumosdigital/backoffice/auth"
	"github.com/stretchr/testify/assert"
)

func TestNewSessionFixedWindow(t *testing.T) {
	now := time.Now()
	user := auth.NormalizedUser{
		ID:           "u1",
		Email:        "a@b.com",
		Name:         "Ann",
		Role:         "admin",
		Token:        "tok",
		RefreshToken: "ref",
	}

	s := New("s1", user, now, 24*time.Hour)

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, now, s.CreatedAt)
	assert.Equal(t, now.Add(24*time.Hour), s.ExpiresAt)
	assert.Equal(t, "ref", s.RefreshToken, "refresh token is stored verbatim")
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := New("s1", auth.NormalizedUser{ID: "u1", Email: "a@b.com", Token: "t"}, now, time.Hour)

	assert.False(t, s.Expired(now))
	assert.False(t, s.Expired(now.Add(59*time.Minute)))
	assert.True(t, s.Expired(now.Add(time.Hour)), "the window boundary itself is expired")
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
}

func TestUserProjectionRoundTrip(t *testing.T) {
	user := auth.NormalizedUser{
		ID:           "u1",
		Email:        "a@b.com",
		Name:         "Ann",
		Role:         "User",
		Token:        "tok",
		RefreshToken: "ref",
	}

	s := New("s1", user, time.Now(), time.Hour)
	assert.Equal(t, user, s.User(), "projection reproduces the normalized user exactly")

	// Pure: repeated reads yield identical results.
	assert.Equal(t, s.User(), s.User())
}
