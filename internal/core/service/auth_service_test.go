package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type stubLimiter struct {
	mu       sync.Mutex
	attempts map[string]int
	err      error
	resets   int
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{attempts: make(map[string]int)}
}

func (l *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	l.attempts[key]++
	return l.attempts[key] <= limit, nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	l.resets++
	return nil
}

func newTestAuthService(t *testing.T, accounts *memAccounts, limiter ports.LoginLimiter, opts AuthOptions) (*AuthService, *SessionManager) {
	t.Helper()
	sessions, err := NewSessionManager(SessionConfig{Secret: "secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	svc := NewAuthService(accounts, NewBcryptHasher(bcrypt.MinCost), sessions, limiter, opts, zerolog.Nop())
	return svc, sessions
}

func TestAuthService_Register_Success(t *testing.T) {
	accounts := newMemAccounts()
	svc, _ := newTestAuthService(t, accounts, nil, AuthOptions{})

	acc, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "pass123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if acc.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", acc.Email)
	}
	if acc.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if acc.Role != domain.RoleUser || acc.Status != domain.StatusActive {
		t.Fatalf("unexpected role/status: %s/%s", acc.Role, acc.Status)
	}
	if acc.Provider != domain.ProviderLocal {
		t.Fatalf("unexpected provider: %s", acc.Provider)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "", Password: "pass123"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "123"}); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "ééé"}); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for a 3-character multibyte password, got %v", err)
	}
	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "pass123", Role: "owner"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad role, got %v", err)
	}
	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "pass123", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch for admin self-registration, got %v", err)
	}
}

func TestAuthService_Register_DuplicateAfterNormalization(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "pass456"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthService_Register_RecruiterApproval(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{RequireRecruiterApproval: true})

	acc, err := svc.Register(context.Background(), ports.RegisterInput{Email: "rec@example.com", Password: "pass123", Role: domain.RoleRecruiter})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if acc.Status != domain.StatusPending {
		t.Fatalf("expected pending recruiter, got %s", acc.Status)
	}

	if _, _, err := svc.Login(context.Background(), "rec@example.com", "pass123"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive for pending recruiter, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	limiter := newStubLimiter()
	svc, sessions := newTestAuthService(t, newMemAccounts(), limiter, AuthOptions{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "s3cret", Role: domain.RoleRecruiter}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, acc, err := svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if acc.Email != "carol@example.com" {
		t.Fatalf("unexpected account: %+v", acc)
	}

	actor, err := sessions.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if actor.Role != domain.RoleRecruiter || actor.AccountID != acc.ID {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "goodpass"})
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_ExternalAccountHasNoPassword(t *testing.T) {
	accounts := newMemAccounts(&domain.Account{
		ID: "g1", Email: "sso@example.com", Provider: "google",
		Role: domain.RoleUser, Status: domain.StatusActive,
	})
	svc, _ := newTestAuthService(t, accounts, nil, AuthOptions{})

	if _, _, err := svc.Login(context.Background(), "sso@example.com", "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Inactive(t *testing.T) {
	accounts := newMemAccounts()
	svc, _ := newTestAuthService(t, accounts, nil, AuthOptions{})

	acc, err := svc.Register(context.Background(), ports.RegisterInput{Email: "erin@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	inactive := domain.StatusInactive
	if _, err := accounts.Update(context.Background(), acc.ID, domain.AccountUpdate{Status: &inactive}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	_, _, err = svc.Login(context.Background(), "erin@example.com", "pass123")
	if !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := newStubLimiter()
	svc, _ := newTestAuthService(t, newMemAccounts(), limiter, AuthOptions{LoginMaxAttempts: 2, LoginWindow: time.Minute})
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "fay@example.com", Password: "pass123"})

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Login(context.Background(), "fay@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, _, err := svc.Login(context.Background(), "fay@example.com", "pass123"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterOutageFailsOpen(t *testing.T) {
	limiter := newStubLimiter()
	limiter.err = errors.New("redis down")
	svc, _ := newTestAuthService(t, newMemAccounts(), limiter, AuthOptions{})
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "gus@example.com", Password: "pass123"})

	if _, _, err := svc.Login(context.Background(), "gus@example.com", "pass123"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestAuthService_Refresh_PicksUpRoleChange(t *testing.T) {
	accounts := newMemAccounts()
	svc, sessions := newTestAuthService(t, accounts, nil, AuthOptions{})

	acc, _ := svc.Register(context.Background(), ports.RegisterInput{Email: "hal@example.com", Password: "pass123", Role: domain.RoleRecruiter})
	first, _, err := svc.Login(context.Background(), "hal@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	demoted := domain.RoleUser
	if _, err := accounts.Update(context.Background(), acc.ID, domain.AccountUpdate{Role: &demoted}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// The old session still carries the snapshot.
	stale, err := sessions.Validate(context.Background(), first.Token)
	if err != nil || stale.Role != domain.RoleRecruiter {
		t.Fatalf("expected stale recruiter snapshot, got %+v (%v)", stale, err)
	}

	refreshed, _, err := svc.Refresh(context.Background(), stale)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.Role != domain.RoleUser {
		t.Fatalf("expected refreshed role user, got %s", refreshed.Role)
	}
}

func TestAuthService_Refresh_DeletedAccount(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})

	_, _, err := svc.Refresh(context.Background(), testActor("gone", domain.RoleUser))
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "long@example.com", Password: strings.Repeat("x", domain.MaxPasswordLength+1)})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("over-long password must not surface as a crypto failure: %v", err)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "edge@example.com", Password: strings.Repeat("x", domain.MaxPasswordLength)}); err != nil {
		t.Fatalf("password at the length limit should register: %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "accent@example.com", Password: "éééééé"}); err != nil {
		t.Fatalf("6-character multibyte password should register: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemAccounts(), nil, AuthOptions{})
	acc, _ := svc.Register(context.Background(), ports.RegisterInput{Email: "ivy@example.com", Password: "oldpass"})
	actor := testActor(acc.ID, acc.Role)

	if err := svc.ChangePassword(context.Background(), actor, "wrong", "newpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), actor, "oldpass", "123"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), actor, "oldpass", strings.Repeat("y", domain.MaxPasswordLength+1)); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), actor, "oldpass", "newpass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ivy@example.com", "newpass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
