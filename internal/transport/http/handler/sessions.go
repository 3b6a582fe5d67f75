package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-signup-api/internal/application/auth"
	"github.com/go-signup-api/internal/application/session"
	"github.com/go-signup-api/internal/pkg/validate"
	"github.com/go-signup-api/internal/transport/http/middleware"
)

// SessionHandler handles login and session lifecycle endpoints.
type SessionHandler struct {
	authSvc auth.Service
	svc     session.Service
}

func NewSessionHandler(authSvc auth.Service, svc session.Service) *SessionHandler {
	return &SessionHandler{authSvc: authSvc, svc: svc}
}

// Login authenticates credentials. Correct credentials on an unverified
// account do not open an authenticated session; the response is 403 with a
// fresh verification token so the client can finish the handshake.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	if !result.Verified {
		writeJSON(w, http.StatusForbidden, VerifyEnvelope{
			VerificationToken: result.VerificationToken,
			Error:             "please verify your email before logging in",
		})
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  result.Auth.Bearer,
		SessionToken: result.Auth.Token,
		Session:      toSafeSession(result.Auth.Session),
		User:         toSafeUser(result.Auth.Session.User),
	})
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" {
		writeError(w, http.StatusBadRequest, "session_token required")
		return
	}
	bearer, newToken, err := h.svc.Refresh(r.Context(), req.SessionToken)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{AccessToken: bearer, SessionToken: newToken})
}

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sess, err := h.svc.GetCurrent(r.Context(), claims.SessionID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Session: toSafeSession(sess),
		User:    toSafeUser(sess.User),
	})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Logout(r.Context(), claims.SessionID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
