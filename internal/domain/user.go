package domain

import "time"

type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Username     string     `json:"username" dynamodbav:"username"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	Active       bool       `json:"active" dynamodbav:"active"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// CanLogIn reports whether the account may hold an authenticated session.
// Both flags are flipped together by the verification flow, exactly once.
func (u *User) CanLogIn() bool {
	return u.Active && u.Verified
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email" validate:"required,email"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Role     *string `json:"role"`
}
