package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailVerificationIsValid(t *testing.T) {
	now := time.Now().UTC()

	fresh := EmailVerification{ExpiresAt: now.Add(10 * time.Minute).Unix()}
	assert.True(t, fresh.IsValid(now))

	used := EmailVerification{Used: true, ExpiresAt: now.Add(10 * time.Minute).Unix()}
	assert.False(t, used.IsValid(now))

	expired := EmailVerification{ExpiresAt: now.Add(-time.Second).Unix()}
	assert.False(t, expired.IsValid(now))

	// Expiry boundary is exclusive.
	atBoundary := EmailVerification{ExpiresAt: now.Unix()}
	assert.False(t, atBoundary.IsValid(now))
}

func TestUserCanLogIn(t *testing.T) {
	assert.True(t, (&User{Active: true, Verified: true}).CanLogIn())
	assert.False(t, (&User{Active: false, Verified: true}).CanLogIn())
	assert.False(t, (&User{Active: true, Verified: false}).CanLogIn())
	assert.False(t, (&User{}).CanLogIn())
}
