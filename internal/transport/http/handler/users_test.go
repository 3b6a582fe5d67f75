package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-signup-api/internal/application/auth"
	"github.com/go-signup-api/internal/domain"
	jwtinfra "github.com/go-signup-api/internal/infrastructure/jwt"
	"github.com/go-signup-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func userRouter(authSvc *mockAuthService, userSvc *mockUserService) http.Handler {
	r := chi.NewRouter()
	h := NewUserHandler(authSvc, userSvc)
	r.Post("/v1/users", h.Register)
	r.Put("/v1/users/{id}", h.Update)
	return r
}

func TestRegister_Success_ReturnsTokenNotSession(t *testing.T) {
	authSvc := &mockAuthService{}
	authSvc.On("SignUp", mock.Anything, mock.AnythingOfType("domain.CreateUserRequest")).Return(&auth.SignUpResult{
		VerificationToken: "pending-token",
		Email:             "user@sydney.edu.pl",
	}, nil)

	rec := postJSON(t, userRouter(authSvc, &mockUserService{}), "/v1/users",
		`{"username":"alice","password":"password123","email":"user@sydney.edu.pl"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp VerifyEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending-token", resp.VerificationToken)
	// Registration never hands out a bearer.
	assert.NotContains(t, rec.Body.String(), "access_token")
}

func TestRegister_WrongDomain_422(t *testing.T) {
	authSvc := &mockAuthService{}
	authSvc.On("SignUp", mock.Anything, mock.Anything).Return(nil,
		fmt.Errorf("registration is only allowed for sydney.edu.pl addresses: %w", domain.ErrDomainNotAllowed))

	rec := postJSON(t, userRouter(authSvc, &mockUserService{}), "/v1/users",
		`{"username":"alice","password":"password123","email":"user@gmail.com"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegister_DuplicateEmail_409(t *testing.T) {
	authSvc := &mockAuthService{}
	authSvc.On("SignUp", mock.Anything, mock.Anything).Return(nil,
		fmt.Errorf("email already registered: %w", domain.ErrConflict))

	rec := postJSON(t, userRouter(authSvc, &mockUserService{}), "/v1/users",
		`{"username":"alice","password":"password123","email":"user@sydney.edu.pl"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_MailFailure_502(t *testing.T) {
	authSvc := &mockAuthService{}
	authSvc.On("SignUp", mock.Anything, mock.Anything).Return(nil,
		fmt.Errorf("could not deliver verification code: %w", domain.ErrMailSendFailed))

	rec := postJSON(t, userRouter(authSvc, &mockUserService{}), "/v1/users",
		`{"username":"alice","password":"password123","email":"user@sydney.edu.pl"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRegister_ShortPassword_422(t *testing.T) {
	authSvc := &mockAuthService{}

	rec := postJSON(t, userRouter(authSvc, &mockUserService{}), "/v1/users",
		`{"username":"alice","password":"short","email":"user@sydney.edu.pl"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	authSvc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func putWithClaims(t *testing.T, h http.Handler, path, body string, claims *jwtinfra.Claims) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUpdateUser_OtherUser_Forbidden(t *testing.T) {
	userSvc := &mockUserService{}
	h := userRouter(&mockAuthService{}, userSvc)

	rec := putWithClaims(t, h, "/v1/users/u2", `{"username":"new"}`,
		&jwtinfra.Claims{UserID: "u1", Role: domain.RoleUser})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	userSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUser_RoleChangeByNonAdmin_Forbidden(t *testing.T) {
	userSvc := &mockUserService{}
	h := userRouter(&mockAuthService{}, userSvc)

	rec := putWithClaims(t, h, "/v1/users/u1", `{"role":"admin"}`,
		&jwtinfra.Claims{UserID: "u1", Role: domain.RoleUser})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	userSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUser_Self_OK(t *testing.T) {
	userSvc := &mockUserService{}
	userSvc.On("Update", mock.Anything, "u1", mock.AnythingOfType("domain.UpdateUserRequest")).Return(
		&domain.User{UserID: "u1", Username: "new", Role: domain.RoleUser}, nil)
	h := userRouter(&mockAuthService{}, userSvc)

	rec := putWithClaims(t, h, "/v1/users/u1", `{"username":"new"}`,
		&jwtinfra.Claims{UserID: "u1", Role: domain.RoleUser})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SafeUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new", resp.Username)
}

func TestUpdateUser_AdminOnAnyUser_OK(t *testing.T) {
	userSvc := &mockUserService{}
	userSvc.On("Update", mock.Anything, "u2", mock.Anything).Return(
		&domain.User{UserID: "u2", Role: domain.RoleAdmin}, nil)
	h := userRouter(&mockAuthService{}, userSvc)

	rec := putWithClaims(t, h, "/v1/users/u2", `{"role":"admin"}`,
		&jwtinfra.Claims{UserID: "u1", Role: domain.RoleAdmin})

	assert.Equal(t, http.StatusOK, rec.Code)
}
