package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-signup-api/internal/application/auth"
	"github.com/go-signup-api/internal/pkg/validate"
)

// VerifyHandler handles the pending-verification handshake endpoints.
type VerifyHandler struct {
	svc auth.Service
}

func NewVerifyHandler(svc auth.Service) *VerifyHandler {
	return &VerifyHandler{svc: svc}
}

func (h *VerifyHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "validate-code":
		var req auth.VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		result, err := h.svc.Verify(r.Context(), req)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, AuthEnvelope{
			AccessToken:  result.Bearer,
			SessionToken: result.Token,
			Session:      toSafeSession(result.Session),
			User:         toSafeUser(result.Session.User),
			Message:      "email verified successfully",
		})
	case "resend":
		var req auth.ResendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.svc.Resend(r.Context(), req); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
