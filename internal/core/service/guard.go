package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
	"github.com/talentbridge/access-core/internal/pkg/metrics"
)

// AccessGuard sequences resolution and decision for the use-case services and
// turns a denial into its typed error. It records every decision in metrics
// and hands denials, admin actions on account records and integrity faults
// to the audit sink.
type AccessGuard struct {
	authz    ports.Authorizer
	resolver ports.OwnershipResolver
	audit    ports.AuditSink
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccessGuard(authz ports.Authorizer, resolver ports.OwnershipResolver, audit ports.AuditSink, log zerolog.Logger) *AccessGuard {
	return &AccessGuard{
		authz:    authz,
		resolver: resolver,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Authorize resolves the resource identified by (kind, id) and decides whether
// actor may perform action on it. The descriptor is returned on success.
func (g *AccessGuard) Authorize(ctx context.Context, actor domain.ActorContext, action domain.Action, kind domain.ResourceKind, id string) (domain.ResourceDescriptor, error) {
	d, err := g.resolver.Resolve(ctx, kind, id)
	if err != nil {
		return domain.ResourceDescriptor{}, g.Unresolved(actor, action, kind, id, err)
	}
	if err := g.Check(ctx, actor, action, d); err != nil {
		return domain.ResourceDescriptor{}, err
	}
	return d, nil
}

// Check decides on a descriptor the caller already holds, typically a creation
// target or one obtained from the typed resolver methods.
func (g *AccessGuard) Check(ctx context.Context, actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	decision := g.authz.Decide(actor, action, d)
	g.record(actor, action, d.Kind, d.ID, decision)

	if err := decision.Err(); err != nil {
		return fmt.Errorf("%s %s: %w", action, d.Kind, err)
	}
	return nil
}

// Unresolved handles a failed resolution. A dangling parent fails closed and
// is recorded as a denial; every other error is returned unchanged.
func (g *AccessGuard) Unresolved(actor domain.ActorContext, action domain.Action, kind domain.ResourceKind, id string, err error) error {
	if errors.Is(err, domain.ErrInconsistentState) {
		g.record(actor, action, kind, id, domain.Deny(domain.ReasonInconsistentState))
	}
	return err
}

func (g *AccessGuard) record(actor domain.ActorContext, action domain.Action, kind domain.ResourceKind, id string, decision domain.Decision) {
	result := "allow"
	if !decision.Allow {
		result = "deny"
	}
	metrics.DecisionsTotal.WithLabelValues(string(kind), string(action), result, string(decision.Reason)).Inc()

	if !decision.Allow {
		g.log.Debug().
			Str("actor_id", actor.AccountID).
			Str("role", string(actor.Role)).
			Str("action", string(action)).
			Str("kind", string(kind)).
			Str("resource_id", id).
			Str("reason", string(decision.Reason)).
			Msg("access denied")
	}

	adminOverride := decision.Allow && decision.Reason == domain.ReasonAdmin && kind == domain.KindUserRecord
	if decision.Allow && !adminOverride {
		return
	}
	if g.audit == nil {
		return
	}
	g.audit.Enqueue(domain.AuditEntry{
		ActorID:    actor.AccountID,
		ActorRole:  actor.Role,
		Action:     action,
		Kind:       kind,
		ResourceID: id,
		Allowed:    decision.Allow,
		Reason:     decision.Reason,
		At:         g.now().UTC(),
	})
}
