// Package authz holds the authorization decision engine: a fixed, ordered rule
// table evaluated over (actor, action, resource descriptor).
//
// The engine is a pure function of its inputs. It performs no I/O, keeps no
// state between calls and never returns an error; a denial is an ordinary
// Decision value. Ownership data must be resolved fresh by the caller before
// Decide is invoked.
package authz

import "github.com/talentbridge/access-core/internal/core/domain"

// rule returns (decision, true) when it matches; the first match wins.
type rule func(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) (domain.Decision, bool)

// Engine evaluates the rule table. The zero value is not usable; call New.
type Engine struct {
	rules []rule
}

// New returns an Engine loaded with the marketplace rule table.
func New() *Engine {
	return &Engine{rules: []rule{
		actorRule,
		adminRule,
		ownerRule,
		creationRule,
		participantRule,
		publicReadRule,
	}}
}

// Decide renders a decision. Calling it twice with identical inputs yields
// identical results.
func (e *Engine) Decide(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) domain.Decision {
	for _, r := range e.rules {
		if decision, ok := r(actor, action, d); ok {
			return decision
		}
	}
	return domain.Deny(domain.ReasonForbidden)
}

// actorRule rejects actors that could not have come from a valid session.
func actorRule(actor domain.ActorContext, _ domain.Action, _ domain.ResourceDescriptor) (domain.Decision, bool) {
	if actor.AccountID == "" || !actor.Role.Valid() {
		return domain.Deny(domain.ReasonUnauthenticated), true
	}
	if actor.Status != domain.StatusActive {
		return domain.Deny(domain.ReasonAccountInactive), true
	}
	return domain.Decision{}, false
}

func adminRule(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) (domain.Decision, bool) {
	if !actor.IsAdmin() {
		return domain.Decision{}, false
	}
	if d.Kind == domain.KindUserRecord && d.ID == actor.AccountID &&
		(action == domain.ActionDelete || action == domain.ActionDeactivate) {
		return domain.Deny(domain.ReasonSelfModificationBlocked), true
	}
	return domain.Allow(domain.ReasonAdmin), true
}

func ownerRule(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) (domain.Decision, bool) {
	switch action {
	case domain.ActionRead, domain.ActionUpdate, domain.ActionDelete:
	default:
		return domain.Decision{}, false
	}
	if d.ID == "" {
		return domain.Decision{}, false
	}

	var owns bool
	switch d.Kind {
	case domain.KindJob:
		owns = d.RecruiterID == actor.AccountID
	case domain.KindApplication:
		owns = d.OwnerID == actor.AccountID || d.RecruiterID == actor.AccountID
	case domain.KindSavedJob, domain.KindMessage, domain.KindUserRecord:
		owns = d.OwnerID == actor.AccountID
	}
	if !owns {
		return domain.Decision{}, false
	}
	return domain.Allow(domain.ReasonOwner), true
}

// creationRule gates actions that bring a new resource into existence.
func creationRule(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) (domain.Decision, bool) {
	switch {
	case d.Kind == domain.KindJob && action == domain.ActionCreate:
		return requireRole(actor, domain.RoleRecruiter, domain.RoleAdmin), true

	case d.Kind == domain.KindJob && action == domain.ActionApply:
		if d.JobStatus != domain.JobActive {
			return domain.Deny(domain.ReasonForbidden), true
		}
		return requireRole(actor, domain.RoleUser), true

	case d.Kind == domain.KindJob && action == domain.ActionSave:
		return requireRole(actor, domain.RoleUser), true

	case d.Kind == domain.KindChat && action == domain.ActionCreate:
		decision := requireRole(actor, domain.RoleUser, domain.RoleRecruiter)
		if decision.Allow && !d.HasParticipant(actor.AccountID) {
			return domain.Deny(domain.ReasonForbidden), true
		}
		return decision, true

	case d.Kind == domain.KindUserRecord && action == domain.ActionCreate:
		return requireRole(actor, domain.RoleAdmin), true
	}
	return domain.Decision{}, false
}

func participantRule(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) (domain.Decision, bool) {
	if d.Kind != domain.KindChat && d.Kind != domain.KindMessage {
		return domain.Decision{}, false
	}
	switch action {
	case domain.ActionRead, domain.ActionSend, domain.ActionMarkRead:
	default:
		return domain.Decision{}, false
	}
	if d.ID == "" || !d.HasParticipant(actor.AccountID) {
		return domain.Decision{}, false
	}
	return domain.Allow(domain.ReasonParticipant), true
}

// publicReadRule lets any authenticated actor read a job posting, closed or not.
func publicReadRule(_ domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) (domain.Decision, bool) {
	if d.Kind == domain.KindJob && action == domain.ActionRead && d.ID != "" {
		return domain.Allow(domain.ReasonPublicRead), true
	}
	return domain.Decision{}, false
}

func requireRole(actor domain.ActorContext, roles ...domain.Role) domain.Decision {
	for _, r := range roles {
		if actor.Role == r {
			return domain.Allow(domain.ReasonRoleGranted)
		}
	}
	return domain.Deny(domain.ReasonRoleMismatch)
}
