package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
	"github.com/talentbridge/access-core/internal/pkg/metrics"
)

const (
	defaultLoginMaxAttempts = 5
	defaultLoginWindow      = 15 * time.Minute
)

// AuthOptions tunes registration and login.
type AuthOptions struct {
	// LoginMaxAttempts failed or successful attempts allowed per email within
	// LoginWindow before ErrTooManyAttempts.
	LoginMaxAttempts int
	LoginWindow      time.Duration
	// RequireRecruiterApproval registers recruiters as pending until an admin
	// activates them.
	RequireRecruiterApproval bool
}

// AuthService implements registration, login and the session lifecycle.
type AuthService struct {
	accounts ports.CredentialStore
	hasher   ports.PasswordHasher
	sessions ports.SessionIssuer
	limiter  ports.LoginLimiter
	opts     AuthOptions
	log      zerolog.Logger
}

// NewAuthService wires the service. limiter may be nil, in which case logins
// are not throttled.
func NewAuthService(
	accounts ports.CredentialStore,
	hasher ports.PasswordHasher,
	sessions ports.SessionIssuer,
	limiter ports.LoginLimiter,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if opts.LoginMaxAttempts <= 0 {
		opts.LoginMaxAttempts = defaultLoginMaxAttempts
	}
	if opts.LoginWindow <= 0 {
		opts.LoginWindow = defaultLoginWindow
	}
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		sessions: sessions,
		limiter:  limiter,
		opts:     opts,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("register: role %q: %w", role, domain.ErrInvalidInput)
	}
	if role == domain.RoleAdmin {
		return nil, fmt.Errorf("register: %w", domain.ErrRoleMismatch)
	}

	status := domain.StatusActive
	if role == domain.RoleRecruiter && s.opts.RequireRecruiterApproval {
		status = domain.StatusPending
	}

	account, err := newLocalAccount(s.hasher, in.Email, in.Password, in.Name, role, status)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Str("status", string(created.Status)).Msg("account registered")
	return created, nil
}

// Login verifies credentials and issues a session. An unknown email, an
// account without a local password and a wrong password are all reported as
// ErrInvalidCredentials. The status check runs only after the password is
// verified so it does not reveal which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle(ctx, email); err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if !account.HasPassword() || !s.hasher.Verify(password, account.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountInactive) {
			metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("account_id", account.ID).Msg("failed to reset login attempts")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("account_id", account.ID).Str("session_id", session.ID).Msg("session issued")

	return session, account, nil
}

// throttle consults the limiter. A limiter outage lets the attempt through.
func (s *AuthService) throttle(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, email, s.opts.LoginMaxAttempts, s.opts.LoginWindow)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		return nil
	}
	if !allowed {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrTooManyAttempts
	}
	return nil
}

// Refresh re-reads the account and issues a session carrying its current role
// and status. This is how a role or status change reaches a live client.
func (s *AuthService) Refresh(ctx context.Context, actor domain.ActorContext) (*domain.Session, *domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("refresh: %w", err)
	}

	session, err := s.sessions.Issue(account)
	if err != nil {
		return nil, nil, fmt.Errorf("refresh: %w", err)
	}

	metrics.SessionsIssuedTotal.WithLabelValues("refresh").Inc()
	return session, account, nil
}

func (s *AuthService) Me(ctx context.Context, actor domain.ActorContext) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	return account, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor domain.ActorContext, current, next string) error {
	account, err := s.accounts.FindByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthenticated
		}
		return fmt.Errorf("change password: %w", err)
	}

	if !account.HasPassword() || !s.hasher.Verify(current, account.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if _, err := s.accounts.Update(ctx, account.ID, domain.AccountUpdate{PasswordHash: &digest}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("password changed")
	return nil
}

func checkPasswordPolicy(password string) error {
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}
	if len(password) > domain.MaxPasswordLength {
		return domain.ErrPasswordTooLong
	}
	return nil
}

// newLocalAccount validates the inputs shared by self-registration and admin
// creation and hashes the password.
func newLocalAccount(hasher ports.PasswordHasher, email, password, name string, role domain.Role, status domain.AccountStatus) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email: %w", domain.ErrInvalidInput)
	}
	if err := checkPasswordPolicy(password); err != nil {
		return nil, err
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Account{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: digest,
		Provider:     domain.ProviderLocal,
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
