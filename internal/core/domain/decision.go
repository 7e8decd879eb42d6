package domain

// Reason explains a Decision. Allow reasons name the rule that matched; deny
// reasons map one-to-one onto error sentinels.
type Reason string

const (
	ReasonAdmin       Reason = "admin"
	ReasonOwner       Reason = "owner"
	ReasonRoleGranted Reason = "role_granted"
	ReasonParticipant Reason = "participant"
	ReasonPublicRead  Reason = "public_read"

	ReasonForbidden               Reason = "forbidden"
	ReasonRoleMismatch            Reason = "role_mismatch"
	ReasonSelfModificationBlocked Reason = "self_modification_blocked"
	ReasonAccountInactive         Reason = "account_inactive"
	ReasonUnauthenticated         Reason = "unauthenticated"

	// ReasonInconsistentState is never produced by the engine; the guard
	// records it when a resource's parent could not be resolved.
	ReasonInconsistentState Reason = "inconsistent_state"
)

// Decision is the outcome of an authorization check. It is never persisted.
type Decision struct {
	Allow  bool
	Reason Reason
}

func Allow(reason Reason) Decision {
	return Decision{Allow: true, Reason: reason}
}

func Deny(reason Reason) Decision {
	return Decision{Allow: false, Reason: reason}
}

// Err returns nil for an allow and the matching sentinel for a denial.
func (d Decision) Err() error {
	if d.Allow {
		return nil
	}
	switch d.Reason {
	case ReasonRoleMismatch:
		return ErrRoleMismatch
	case ReasonSelfModificationBlocked:
		return ErrSelfModificationBlocked
	case ReasonAccountInactive:
		return ErrAccountInactive
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonInconsistentState:
		return ErrInconsistentState
	default:
		return ErrForbidden
	}
}
