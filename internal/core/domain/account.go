package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Role is the actor class stored on an account and embedded in sessions.
type Role string

const (
	RoleUser      Role = "user"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known role literals.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusPending  AccountStatus = "pending"
)

// Valid reports whether s is one of the known status literals.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// validStatusTransitions defines the account state machine. inactive → active
// exists only for manual re-activation by an admin.
var validStatusTransitions = map[AccountStatus][]AccountStatus{
	StatusPending:  {StatusActive},
	StatusActive:   {StatusInactive},
	StatusInactive: {StatusActive},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	for _, allowed := range validStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProviderLocal marks accounts that authenticate with a password hash.
const ProviderLocal = "local"

// Account is a credential record owned by the persistence collaborator.
type Account struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name,omitempty"`
	PasswordHash string        `json:"-"`
	Provider     string        `json:"provider,omitempty"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasPassword is false for accounts created through an external identity provider.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// AccountUpdate carries the mutable account fields; nil means unchanged.
type AccountUpdate struct {
	Name         *string
	Role         *Role
	Status       *AccountStatus
	PasswordHash *string
}

// Empty reports whether the update would change nothing.
func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Role == nil && u.Status == nil && u.PasswordHash == nil
}

// NormalizeEmail returns the canonical form used for uniqueness and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}
