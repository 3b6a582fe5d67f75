package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-signup-api/internal/domain"
	jwtinfra "github.com/go-signup-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ClaimsKey, &jwtinfra.Claims{UserID: "u1", Role: role})
	return req.WithContext(ctx)
}

func TestRequireRole_Allowed(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	rec := httptest.NewRecorder()

	RequireRole(domain.RoleAdmin)(next).ServeHTTP(rec, requestWithRole(domain.RoleAdmin))
	assert.True(t, called)
}

func TestRequireRole_WrongRole_Forbidden(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})
	rec := httptest.NewRecorder()

	RequireRole(domain.RoleAdmin)(next).ServeHTTP(rec, requestWithRole(domain.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoClaims_Unauthorized(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})
	rec := httptest.NewRecorder()

	RequireRole(domain.RoleAdmin)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
