package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/pkg/code"
	"github.com/go-signup-api/internal/pkg/id"
	pkgtoken "github.com/go-signup-api/internal/pkg/token"
	"github.com/go-signup-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type VerifyRequest struct {
	VerificationToken string `json:"verification_token" validate:"required"`
	Code              string `json:"code" validate:"required,numeric"`
}

type ResendRequest struct {
	VerificationToken string `json:"verification_token" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpResult carries the pending-verification handle issued at sign-up.
type SignUpResult struct {
	VerificationToken string
	Email             string
}

// AuthResult is an authenticated session: a signed bearer plus the opaque
// session token used for refresh.
type AuthResult struct {
	Bearer  string
	Token   string
	Session *domain.Session
}

// LoginResult is either an authenticated session (Verified true) or a
// re-entry into the pending-verification handshake.
type LoginResult struct {
	Verified          bool
	Auth              *AuthResult
	VerificationToken string
}

// Service is the verification coordinator: it owns the
// Anonymous → PendingVerification → Authenticated state machine.
// There is no path back from verified.
type Service interface {
	SignUp(ctx context.Context, req domain.CreateUserRequest) (*SignUpResult, error)
	Verify(ctx context.Context, req VerifyRequest) (*AuthResult, error)
	Resend(ctx context.Context, req ResendRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Activate(ctx context.Context, userID string) error
	HardDelete(ctx context.Context, userID string) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Promote(ctx context.Context, sessionID, newToken string, newExpiry int64) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.EmailVerification) error
	FindByCode(ctx context.Context, userID, code string) (*domain.EmailVerification, error)
	Latest(ctx context.Context, userID string) (*domain.EmailVerification, error)
	MarkUsed(ctx context.Context, userID, verificationID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

type mailSender interface {
	SendEmail(to, subject, body string) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type ServiceDeps struct {
	UserRepo         userStore
	SessionRepo      sessionStore
	VerificationRepo verificationStore
	Mailer           mailSender
	JWTProvider      jwtSigner

	AllowedEmailDomain string
	CodeLength         int
	CodeTTL            time.Duration
	ResendCooldown     time.Duration
	PendingSessionTTL  time.Duration
	SessionTokenTTL    time.Duration
}

type service struct {
	userRepo         userStore
	sessionRepo      sessionStore
	verificationRepo verificationStore
	mailer           mailSender
	jwtProvider      jwtSigner

	allowedDomain     string
	codeLength        int
	codeTTL           time.Duration
	resendCooldown    time.Duration
	pendingSessionTTL time.Duration
	sessionTokenTTL   time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:          deps.UserRepo,
		sessionRepo:       deps.SessionRepo,
		verificationRepo:  deps.VerificationRepo,
		mailer:            deps.Mailer,
		jwtProvider:       deps.JWTProvider,
		allowedDomain:     deps.AllowedEmailDomain,
		codeLength:        deps.CodeLength,
		codeTTL:           deps.CodeTTL,
		resendCooldown:    deps.ResendCooldown,
		pendingSessionTTL: deps.PendingSessionTTL,
		sessionTokenTTL:   deps.SessionTokenTTL,
	}
}

// SignUp creates an inactive account, issues a verification code, mails it,
// and opens a pending session. The mail send is the only step with a
// compensating rollback: on failure the account and its code are removed so
// nothing half-created survives.
func (s *service) SignUp(ctx context.Context, req domain.CreateUserRequest) (*SignUpResult, error) {
	if validate.EmailDomain(req.Email) != s.allowedDomain {
		return nil, fmt.Errorf("registration is only allowed for %s addresses: %w", s.allowedDomain, domain.ErrDomainNotAllowed)
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       false,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}

	if err := s.issueAndSend(ctx, u); err != nil {
		s.rollbackSignUp(ctx, u.UserID)
		return nil, fmt.Errorf("could not deliver verification code: %w", domain.ErrMailSendFailed)
	}

	verificationToken, err := s.openPendingSession(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{VerificationToken: verificationToken, Email: u.Email}, nil
}

// Verify redeems a code against the pending session's account. On success the
// account flips to active+verified (exactly once: the record's used flag is
// set with a conditional write) and the session is promoted to authenticated.
func (s *service) Verify(ctx context.Context, req VerifyRequest) (*AuthResult, error) {
	sess, u, err := s.resolvePending(ctx, req.VerificationToken)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	v, err := s.verificationRepo.FindByCode(ctx, u.UserID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("code does not match: %w", domain.ErrInvalidOrExpiredCode)
	}
	if !v.IsValid(now) {
		return nil, fmt.Errorf("code expired: %w", domain.ErrInvalidOrExpiredCode)
	}
	if err := s.verificationRepo.MarkUsed(ctx, u.UserID, v.VerificationID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Activate(ctx, u.UserID); err != nil {
		return nil, err
	}

	newToken, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	newExpiry := now.Add(s.sessionTokenTTL).Unix()
	if err := s.sessionRepo.Promote(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}

	u.Active = true
	u.Verified = true
	sess.Status = domain.SessionActive
	sess.Token = newToken
	sess.TokenExpiresAt = newExpiry
	sess.User = u
	return &AuthResult{Bearer: bearer, Token: newToken, Session: sess}, nil
}

// Resend issues a fresh code for the pending session's account, subject to a
// cooldown against the most recently issued record. Earlier records stay in
// place; validation always prefers the newest match.
func (s *service) Resend(ctx context.Context, req ResendRequest) error {
	_, u, err := s.resolvePending(ctx, req.VerificationToken)
	if err != nil {
		return err
	}
	if latest, err := s.verificationRepo.Latest(ctx, u.UserID); err == nil {
		if time.Since(latest.CreatedAt) < s.resendCooldown {
			return fmt.Errorf("a code was sent moments ago, wait before retrying: %w", domain.ErrConflict)
		}
	}
	if err := s.issueAndSend(ctx, u); err != nil {
		return fmt.Errorf("could not deliver verification code: %w", domain.ErrMailSendFailed)
	}
	return nil
}

// Login authenticates credentials. An unverified account re-enters the
// pending-verification handshake: a fresh pending session is opened and a new
// code is issued and mailed (cooldown permitting) rather than relying on the
// possibly expired sign-up code.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("wrong email or password: %w", domain.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("wrong email or password: %w", domain.ErrInvalidCredentials)
	}

	if !u.Verified {
		verificationToken, err := s.openPendingSession(ctx, u.UserID)
		if err != nil {
			return nil, err
		}
		s.reissueForLogin(ctx, u)
		return &LoginResult{Verified: false, VerificationToken: verificationToken}, nil
	}
	if !u.CanLogIn() {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}

	now := time.Now().UTC()
	tok, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		SessionID:      id.New(),
		UserID:         u.UserID,
		Status:         domain.SessionActive,
		Token:          tok,
		TokenExpiresAt: now.Add(s.sessionTokenTTL).Unix(),
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &LoginResult{Verified: true, Auth: &AuthResult{Bearer: bearer, Token: tok, Session: sess}}, nil
}

// resolvePending maps every broken precondition (unknown token, non-pending
// session, expired handshake, vanished account) to ErrNoPendingVerification.
func (s *service) resolvePending(ctx context.Context, verificationToken string) (*domain.Session, *domain.User, error) {
	sess, err := s.sessionRepo.GetByToken(ctx, verificationToken)
	if err != nil {
		return nil, nil, fmt.Errorf("unknown verification token: %w", domain.ErrNoPendingVerification)
	}
	if sess.Status != domain.SessionPending {
		return nil, nil, fmt.Errorf("session is not awaiting verification: %w", domain.ErrNoPendingVerification)
	}
	if sess.TokenExpiresAt < time.Now().Unix() {
		return nil, nil, fmt.Errorf("verification session expired: %w", domain.ErrNoPendingVerification)
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("pending account no longer exists: %w", domain.ErrNoPendingVerification)
	}
	return sess, u, nil
}

// issueAndSend creates a fresh verification record and mails its code.
// Old records are never reused; multiple outstanding codes may coexist.
func (s *service) issueAndSend(ctx context.Context, u *domain.User) error {
	c, err := code.Generate(s.codeLength)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	v := &domain.EmailVerification{
		UserID:         u.UserID,
		VerificationID: id.New(),
		Code:           c,
		Used:           false,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.codeTTL).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Hello %s,\n\nYour verification code is: %s\n\nThis code will expire in %d minutes.\n\nIf you didn't request this, please ignore this email.",
		u.Username, c, int(s.codeTTL.Minutes()),
	)
	return s.mailer.SendEmail(u.Email, "Verify your email", body)
}

func (s *service) openPendingSession(ctx context.Context, userID string) (string, error) {
	tok, err := pkgtoken.New()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:      id.New(),
		UserID:         userID,
		Status:         domain.SessionPending,
		Token:          tok,
		TokenExpiresAt: now.Add(s.pendingSessionTTL).Unix(),
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return "", err
	}
	return tok, nil
}

// rollbackSignUp undoes the account creation after a failed mail send.
// Best effort: a stray record without an account is harmless, but the
// account must go so the email address can be registered again.
func (s *service) rollbackSignUp(ctx context.Context, userID string) {
	if err := s.verificationRepo.DeleteAllForUser(ctx, userID); err != nil {
		slog.Warn("rollback: could not delete verification records", "user_id", userID, "err", err)
	}
	if err := s.userRepo.HardDelete(ctx, userID); err != nil {
		slog.Error("rollback: could not delete user after mail failure", "user_id", userID, "err", err)
	}
}

// reissueForLogin sends a fresh code when an unverified account logs in.
// Failures here are logged, not returned: the pending handshake is already
// open and the client can fall back to the resend endpoint.
func (s *service) reissueForLogin(ctx context.Context, u *domain.User) {
	if latest, err := s.verificationRepo.Latest(ctx, u.UserID); err == nil {
		if time.Since(latest.CreatedAt) < s.resendCooldown {
			return
		}
	}
	if err := s.issueAndSend(ctx, u); err != nil {
		slog.Warn("could not resend verification code on login", "user_id", u.UserID, "err", err)
	}
}
