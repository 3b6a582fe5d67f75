package domain

import "time"

// EmailVerification stores one issued sign-up verification code.
// PK: user_id, SK: verification_id (ULID: sort order is issue order, so a
// descending query yields the most recently issued record first).
// Records are kept after use or expiry as an audit trail; expiry is logical,
// checked at read time via IsValid. The table carries no DynamoDB TTL.
type EmailVerification struct {
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	VerificationID string    `json:"id" dynamodbav:"verification_id"`
	Code           string    `json:"-" dynamodbav:"code"`
	Used           bool      `json:"used" dynamodbav:"used"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt      int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
}

// IsValid reports whether the code may still be redeemed at the given instant.
func (v *EmailVerification) IsValid(now time.Time) bool {
	return !v.Used && now.Unix() < v.ExpiresAt
}
