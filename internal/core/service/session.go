package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// DefaultSessionTTL is the lifetime of an issued session and therefore the
// longest window during which a role or status change goes unnoticed.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionConfig configures the SessionManager.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
	// Now is the clock used for issuance and expiry checks; defaults to time.Now.
	Now func() time.Time
}

// SessionManager issues and validates HS256 session tokens. It keeps no state
// beyond its configuration and is safe for concurrent use.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role   domain.Role          `json:"role"`
	Status domain.AccountStatus `json:"status"`
}

func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session: signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &SessionManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
		parser: jwt.NewParser(opts...),
	}, nil
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session for an active account. Role and status are copied
// into the token as they are now.
func (m *SessionManager) Issue(account *domain.Account) (*domain.Session, error) {
	if account == nil || account.ID == "" {
		return nil, fmt.Errorf("issue session: %w", domain.ErrInvalidInput)
	}
	if account.Status != domain.StatusActive {
		return nil, domain.ErrAccountInactive
	}

	// NumericDate has second precision; truncating keeps exp - iat == ttl.
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:   account.Role,
		Status: account.Status,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, &domain.CryptoError{Op: "sign", Err: err}
	}

	return &domain.Session{
		ID:        claims.ID,
		Token:     signed,
		AccountID: account.ID,
		Role:      account.Role,
		Status:    account.Status,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate verifies rawToken and rebuilds the actor from its claims. It never
// consults the account store. Every failure is a *domain.SessionError, which
// matches domain.ErrUnauthenticated.
func (m *SessionManager) Validate(ctx context.Context, rawToken string) (domain.ActorContext, error) {
	if err := ctx.Err(); err != nil {
		return domain.ActorContext{}, err
	}

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.ActorContext{}, &domain.SessionError{Reason: domain.SessionMalformed}
	}

	claims := &sessionClaims{}
	if _, err := m.parser.ParseWithClaims(rawToken, claims, m.key); err != nil {
		return domain.ActorContext{}, &domain.SessionError{Reason: classifyTokenError(err), Err: err}
	}

	actor := domain.ActorContext{
		AccountID: claims.Subject,
		Role:      claims.Role,
		Status:    claims.Status,
	}
	if actor.AccountID == "" || !actor.Role.Valid() || !actor.Status.Valid() || claims.IssuedAt == nil {
		return domain.ActorContext{}, &domain.SessionError{
			Reason: domain.SessionMalformed,
			Err:    errors.New("incomplete session claims"),
		}
	}
	return actor, nil
}

func (m *SessionManager) key(*jwt.Token) (interface{}, error) {
	return m.secret, nil
}

// classifyTokenError maps parser errors onto the session failure reasons. The
// parser verifies the signature before the claims, so an expired token that
// reaches claim validation was genuinely signed by us.
func classifyTokenError(err error) domain.SessionFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.SessionSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.SessionExpired
	default:
		return domain.SessionMalformed
	}
}
