package domain

import "time"

// Session statuses. A pending session is the verification handshake state:
// it references exactly one not-yet-verified user and is promoted in place
// (status flipped, token rotated) on successful code submission.
const (
	SessionPending = "pending"
	SessionActive  = "active"
)

type Session struct {
	SessionID      string    `json:"id" dynamodbav:"session_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Status         string    `json:"status" dynamodbav:"status"`
	Token          string    `json:"-" dynamodbav:"token"`
	TokenExpiresAt int64     `json:"token_expires_at" dynamodbav:"token_expires_at"` // Unix seconds
	Enable         bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
	User           *User     `json:"user,omitempty" dynamodbav:"-"`
}
