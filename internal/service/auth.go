// Package service contains application services for authentication and job applications.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/clock"
	pkgcrypto "github.com/and161185/jobboard/internal/crypto"
	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/events"
	"github.com/and161185/jobboard/internal/limiter"
	"github.com/and161185/jobboard/internal/model"
	"github.com/and161185/jobboard/internal/repository"
	"github.com/and161185/jobboard/internal/telemetry"
)

// DefaultTokenTTL caps the lifetime of a session token regardless of activity.
const DefaultTokenTTL = 12 * time.Hour

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService defines registration, login and current-user operations.
type AuthService interface {
	// Register creates a new user with a hashed password.
	Register(ctx context.Context, in RegisterInput) (model.User, error)
	// Authenticate applies rate limiting and verifies the credentials.
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	// SetCurrentUser starts a session for u.
	SetCurrentUser(ctx context.Context, u model.User) error
	// CurrentUser returns the logged-in user, if any.
	CurrentUser(ctx context.Context) (model.User, bool)
	// VerifySession checks the stored session token against the current user.
	VerifySession(ctx context.Context) (model.User, error)
	// Logout removes the session state.
	Logout(ctx context.Context)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	lim      limiter.Limiter
	hasher   *pkgcrypto.Hasher
	signKey  []byte
	tokenTTL time.Duration

	clk     clock.Clock
	bus     *events.Bus
	metrics *telemetry.Metrics
	log     *zap.Logger
}

// AuthOption configures AuthServiceImpl.
type AuthOption func(*AuthServiceImpl)

// WithClock overrides the time source.
func WithClock(c clock.Clock) AuthOption { return func(s *AuthServiceImpl) { s.clk = c } }

// WithBus publishes auth-change notifications on b.
func WithBus(b *events.Bus) AuthOption { return func(s *AuthServiceImpl) { s.bus = b } }

// WithMetrics records login and registration metrics.
func WithMetrics(m *telemetry.Metrics) AuthOption { return func(s *AuthServiceImpl) { s.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) AuthOption { return func(s *AuthServiceImpl) { s.log = l } }

// WithTokenTTL sets the absolute session token lifetime.
func WithTokenTTL(d time.Duration) AuthOption {
	return func(s *AuthServiceImpl) {
		if d > 0 {
			s.tokenTTL = d
		}
	}
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	lim limiter.Limiter,
	hasher *pkgcrypto.Hasher,
	signKey []byte,
	opts ...AuthOption,
) *AuthServiceImpl {
	s := &AuthServiceImpl{
		users:    users,
		sessions: sessions,
		lim:      lim,
		hasher:   hasher,
		signKey:  signKey,
		tokenTTL: DefaultTokenTTL,
		clk:      clock.Real{},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.clk == nil {
		s.clk = clock.Real{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("auth")
	return s
}

// Register creates a new user record. Name and email are sanitized and the email lowercased.
func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	name := Sanitize(in.Name)
	email := NormalizeEmail(in.Email)
	if strings.TrimSpace(name) == "" || email == "" || in.Password == "" {
		return model.User{}, errs.Validation("Name, email and password are required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, errs.ErrAlreadyExists
	} else if !errors.Is(err, errs.ErrNotFound) {
		return model.User{}, s.unexpected("lookup user", err)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, pkgcrypto.ErrPasswordTooLong) {
		return model.User{}, errs.Validation("Password must be at most 72 bytes long")
	}
	if err != nil {
		return model.User{}, s.unexpected("hash password", err)
	}
	s.metrics.Hashed(ctx, s.hasher.Alg(), time.Since(start))

	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, s.unexpected("generate id", err)
	}

	rec := model.UserRecord{
		ID:           uid.String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clk.Now().UTC(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.User{}, err
		}
		return model.User{}, s.unexpected("create user", err)
	}

	s.metrics.Registered(ctx)
	s.log.Info("user registered", zap.String("id", rec.ID))
	return rec.Public(), nil
}

// Authenticate checks the lockout state, then the credentials. Unknown emails and wrong
// passwords take the same failed-attempt path.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	id := NormalizeEmail(email)

	if lo := s.lim.CheckLockout(ctx, id); lo.Locked {
		s.metrics.Login(ctx, telemetry.OutcomeLocked)
		return model.User{}, &errs.LockedError{RemainingMinutes: lo.RemainingMinutes}
	}

	u, err := s.users.GetByEmail(ctx, id)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.User{}, s.unexpected("lookup user", err)
	}
	if err != nil || !s.hasher.Verify(password, u.PasswordHash) {
		a := s.lim.RecordFailure(ctx, id)
		s.metrics.Login(ctx, telemetry.OutcomeInvalid)
		if a.Locked {
			s.metrics.LockedOut(ctx)
			s.log.Warn("identifier locked after failed logins", zap.String("id", id))
		}
		return model.User{}, &errs.CredentialsError{AttemptsLeft: a.AttemptsLeft, Locked: a.Locked}
	}

	s.lim.Clear(ctx, id)
	s.metrics.Login(ctx, telemetry.OutcomeSuccess)
	return u.Public(), nil
}

// SetCurrentUser stores the user, the first activity time and a signed session token.
func (s *AuthServiceImpl) SetCurrentUser(ctx context.Context, u model.User) error {
	now := s.clk.Now()
	if err := s.sessions.Start(ctx, u, now); err != nil {
		return s.unexpected("start session", err)
	}
	tok, _, err := s.issueSessionToken(u.ID, now)
	if err != nil {
		return s.unexpected("issue session token", err)
	}
	if err := s.sessions.SetToken(ctx, tok); err != nil {
		return s.unexpected("store session token", err)
	}
	s.bus.Publish(events.Event{Kind: events.AuthChange})
	return nil
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context) (model.User, bool) {
	u, err := s.sessions.CurrentUser(ctx)
	return u, err == nil
}

// VerifySession returns the current user if the stored token is valid and was issued to that user.
func (s *AuthServiceImpl) VerifySession(ctx context.Context) (model.User, error) {
	u, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return model.User{}, errs.ErrUnauthorized
	}
	tok, err := s.sessions.Token(ctx)
	if err != nil {
		return model.User{}, errs.ErrUnauthorized
	}
	sub, err := s.parseSessionToken(tok)
	if err != nil {
		s.log.Debug("session token rejected", zap.Error(err))
		return model.User{}, errs.ErrUnauthorized
	}
	if sub != u.ID {
		return model.User{}, errs.ErrUnauthorized
	}
	return u, nil
}

// Logout removes the current user, last activity and session token.
func (s *AuthServiceImpl) Logout(ctx context.Context) {
	s.sessions.End(ctx)
	s.bus.Publish(events.Event{Kind: events.AuthChange})
}

func (s *AuthServiceImpl) unexpected(op string, err error) error {
	s.log.Error(op, zap.Error(err))
	return fmt.Errorf("%s: %w", op, errs.ErrUnexpected)
}
