package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-signup-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) SoftDeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func strPtr(s string) *string { return &s }

func TestUpdate_UsernameTaken_Conflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "taken").Return(&domain.User{UserID: "u2"}, nil)

	svc := NewService(ServiceDeps{UserRepo: us, SessionRepo: &mockSessionStore{}})
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Username: strPtr("taken")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_InvalidRole_BadRequest(t *testing.T) {
	us := &mockUserStore{}

	svc := NewService(ServiceDeps{UserRepo: us, SessionRepo: &mockSessionStore{}})
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Role: strPtr("superuser")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_NoFields_ReturnsCurrentUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Username: "alice"}, nil)

	svc := NewService(ServiceDeps{UserRepo: us, SessionRepo: &mockSessionStore{}})
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{})

	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_Username_AppliesPartialUpdate(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "fresh").Return(nil, domain.ErrNotFound)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"username": "fresh"}).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Username: "fresh"}, nil)

	svc := NewService(ServiceDeps{UserRepo: us, SessionRepo: &mockSessionStore{}})
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Username: strPtr("fresh")})

	require.NoError(t, err)
	assert.Equal(t, "fresh", u.Username)
	us.AssertExpectations(t)
}

func TestDelete_CascadesToSessions(t *testing.T) {
	us := &mockUserStore{}
	ss := &mockSessionStore{}
	us.On("SoftDelete", mock.Anything, "u1").Return(nil)
	ss.On("SoftDeleteByUser", mock.Anything, "u1").Return(nil)

	svc := NewService(ServiceDeps{UserRepo: us, SessionRepo: ss})
	require.NoError(t, svc.Delete(context.Background(), "u1"))
	ss.AssertExpectations(t)
}

func TestList_DefaultsLimit(t *testing.T) {
	us := &mockUserStore{}
	us.On("ScanPage", mock.Anything, int32(50), "").Return([]domain.User{{UserID: "u1"}}, "next", nil)

	svc := NewService(ServiceDeps{UserRepo: us, SessionRepo: &mockSessionStore{}})
	users, next, err := svc.List(context.Background(), 0, "")

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "next", next)
}
