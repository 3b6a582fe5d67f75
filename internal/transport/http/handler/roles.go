package handler

import (
	"net/http"

	"github.com/go-signup-api/internal/domain"
)

// ListRoles returns the fixed set of user roles.
func ListRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"roles": domain.Roles})
}
