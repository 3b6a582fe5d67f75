package handler

import (
	"context"

	"github.com/go-signup-api/internal/application/auth"
	"github.com/go-signup-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) SignUp(ctx context.Context, req domain.CreateUserRequest) (*auth.SignUpResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.SignUpResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Verify(ctx context.Context, req auth.VerifyRequest) (*auth.AuthResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.AuthResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Resend(ctx context.Context, req auth.ResendRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}

func (m *mockUserService) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
