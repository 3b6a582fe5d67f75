package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-signup-api/internal/domain"
	pkgtoken "github.com/go-signup-api/internal/pkg/token"
)

type Service interface {
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, token string) (bearer, newToken string, err error)
}

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	RotateToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type service struct {
	sessionRepo sessionStore
	userRepo    userStore
	jwtProvider jwtSigner
	tokenTTL    time.Duration
}

type ServiceDeps struct {
	SessionRepo sessionStore
	UserRepo    userStore
	JWTProvider jwtSigner
	TokenTTL    time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessionRepo: deps.SessionRepo,
		userRepo:    deps.UserRepo,
		jwtProvider: deps.JWTProvider,
		tokenTTL:    deps.TokenTTL,
	}
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable || sess.Status != domain.SessionActive {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return sess, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Update(ctx, sessionID, map[string]interface{}{"enable": false})
}

// Refresh rotates the opaque token on an active session and signs a new
// bearer. Pending handshake tokens never refresh; they only redeem a code.
func (s *service) Refresh(ctx context.Context, token string) (string, string, error) {
	sess, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	if sess.Status != domain.SessionActive {
		return "", "", fmt.Errorf("session not active: %w", domain.ErrUnauthorized)
	}
	if sess.TokenExpiresAt < time.Now().Unix() {
		return "", "", fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
	}
	newToken, err := pkgtoken.New()
	if err != nil {
		return "", "", err
	}
	newExpiry := time.Now().Add(s.tokenTTL).Unix()
	if err := s.sessionRepo.RotateToken(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return "", "", err
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return "", "", err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}
