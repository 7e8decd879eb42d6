package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type accountService struct {
	accounts ports.CredentialStore
	hasher   ports.PasswordHasher
	resolver *OwnershipResolver
	guard    *AccessGuard
	log      zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(
	accounts ports.CredentialStore,
	hasher ports.PasswordHasher,
	resolver *OwnershipResolver,
	guard *AccessGuard,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{
		accounts: accounts,
		hasher:   hasher,
		resolver: resolver,
		guard:    guard,
		log:      log,
	}
}

func (s *accountService) Create(ctx context.Context, actor domain.ActorContext, in ports.CreateAccountInput) (*domain.Account, error) {
	if err := s.guard.Check(ctx, actor, domain.ActionCreate, domain.NewAccountTarget()); err != nil {
		return nil, err
	}

	if !in.Role.Valid() {
		return nil, fmt.Errorf("create account: role %q: %w", in.Role, domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("create account: status %q: %w", status, domain.ErrInvalidInput)
	}

	account, err := newLocalAccount(s.hasher, in.Email, in.Password, in.Name, in.Role, status)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info().Str("actor_id", actor.AccountID).Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	return created, nil
}

func (s *accountService) Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Account, error) {
	account, _, err := s.authorize(ctx, actor, domain.ActionRead, id)
	return account, err
}

func (s *accountService) UpdateProfile(ctx context.Context, actor domain.ActorContext, id, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("update profile: name: %w", domain.ErrInvalidInput)
	}
	if _, _, err := s.authorize(ctx, actor, domain.ActionUpdate, id); err != nil {
		return nil, err
	}
	updated, err := s.accounts.Update(ctx, id, domain.AccountUpdate{Name: &name})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// ChangeRole is the only path that mutates a role after creation. The change
// reaches the account's sessions when they are refreshed.
func (s *accountService) ChangeRole(ctx context.Context, actor domain.ActorContext, id string, role domain.Role) (*domain.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("change role: role %q: %w", role, domain.ErrInvalidInput)
	}
	account, _, err := s.authorize(ctx, actor, domain.ActionChangeRole, id)
	if err != nil {
		return nil, err
	}
	if account.Role == role {
		return account, nil
	}

	updated, err := s.accounts.Update(ctx, id, domain.AccountUpdate{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}
	s.log.Info().Str("actor_id", actor.AccountID).Str("account_id", id).Str("from", string(account.Role)).Str("to", string(role)).Msg("role changed")
	return updated, nil
}

// SetStatus moves an account through the status state machine. Deactivation
// and activation are distinct actions so the admin self-guard applies.
func (s *accountService) SetStatus(ctx context.Context, actor domain.ActorContext, id string, status domain.AccountStatus) (*domain.Account, error) {
	var action domain.Action
	switch status {
	case domain.StatusInactive:
		action = domain.ActionDeactivate
	case domain.StatusActive:
		action = domain.ActionActivate
	default:
		return nil, fmt.Errorf("set status: %q: %w", status, domain.ErrInvalidTransition)
	}

	account, _, err := s.authorize(ctx, actor, action, id)
	if err != nil {
		return nil, err
	}
	if !account.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("set status: %w (from %s to %s)", domain.ErrInvalidTransition, account.Status, status)
	}

	updated, err := s.accounts.Update(ctx, id, domain.AccountUpdate{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	s.log.Info().Str("actor_id", actor.AccountID).Str("account_id", id).Str("status", string(status)).Msg("account status changed")
	return updated, nil
}

func (s *accountService) Delete(ctx context.Context, actor domain.ActorContext, id string) error {
	if _, _, err := s.authorize(ctx, actor, domain.ActionDelete, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info().Str("actor_id", actor.AccountID).Str("account_id", id).Msg("account deleted")
	return nil
}

func (s *accountService) authorize(ctx context.Context, actor domain.ActorContext, action domain.Action, id string) (*domain.Account, domain.ResourceDescriptor, error) {
	account, d, err := s.resolver.Account(ctx, id)
	if err != nil {
		return nil, d, s.guard.Unresolved(actor, action, domain.KindUserRecord, id, err)
	}
	if err := s.guard.Check(ctx, actor, action, d); err != nil {
		return nil, d, err
	}
	return account, d, nil
}
