package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-signup-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyEnvelope wraps responses in the pending-verification handshake.
// The verification token is the client's only handle on the pending session.
type VerifyEnvelope struct {
	VerificationToken string `json:"verification_token,omitempty"`
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
}

// AuthEnvelope wraps authenticated-session responses.
type AuthEnvelope struct {
	AccessToken  string       `json:"access_token,omitempty"`
	SessionToken string       `json:"session_token,omitempty"`
	Session      *SafeSession `json:"session,omitempty"`
	User         *SafeUser    `json:"user,omitempty"`
	Message      string       `json:"message,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// PaginatedUsersEnvelope wraps cursor-paginated user list responses.
type PaginatedUsersEnvelope struct {
	Data       []*SafeUser `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// SafeUser is the client-facing user shape: no password hash, no tombstone.
type SafeUser struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Active   bool      `json:"active"`
	Verified bool      `json:"verified"`
	Created  time.Time `json:"created"`
}

// SafeSession is the client-facing session shape: the opaque token is only
// ever delivered through AuthEnvelope fields, never embedded here.
type SafeSession struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Status  string    `json:"status"`
	Created time.Time `json:"created"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		ID:       u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
		Verified: u.Verified,
		Created:  u.CreatedAt,
	}
}

func toSafeSession(s *domain.Session) *SafeSession {
	if s == nil {
		return nil
	}
	return &SafeSession{
		ID:      s.SessionID,
		UserID:  s.UserID,
		Status:  s.Status,
		Created: s.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps wrapped domain sentinels to HTTP status codes. Every flow
// failure is recoverable and surfaces as a JSON error body; nothing here is
// fatal to the process.
func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDomainNotAllowed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMailSendFailed):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrNoPendingVerification),
		errors.Is(err, domain.ErrInvalidOrExpiredCode),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}
