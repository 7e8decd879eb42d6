package domain

import "time"

// ActorContext is the identity behind a request, rebuilt from the session on
// every request and passed by value into each decision.
type ActorContext struct {
	AccountID string
	Role      Role
	Status    AccountStatus
}

// IsAdmin reports whether the actor holds the admin role.
func (a ActorContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Session is a signed, time-bounded bearer token plus the claims embedded in
// it at issuance. Role and Status are a snapshot and are not re-read until the
// session is refreshed.
type Session struct {
	ID        string        `json:"id"`
	Token     string        `json:"token"`
	AccountID string        `json:"account_id"`
	Role      Role          `json:"role"`
	Status    AccountStatus `json:"status"`
	IssuedAt  time.Time     `json:"issued_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Actor returns the ActorContext the session carries.
func (s *Session) Actor() ActorContext {
	return ActorContext{AccountID: s.AccountID, Role: s.Role, Status: s.Status}
}

// Action is an operation an actor attempts on a resource.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionApply      Action = "apply"
	ActionSave       Action = "save"
	ActionSend       Action = "send"
	ActionMarkRead   Action = "mark_read"
	ActionDeactivate Action = "deactivate"
	ActionActivate   Action = "activate"
	ActionChangeRole Action = "change_role"
)

// ResourceKind tags a ResourceDescriptor.
type ResourceKind string

const (
	KindJob         ResourceKind = "job"
	KindApplication ResourceKind = "application"
	KindSavedJob    ResourceKind = "saved_job"
	KindChat        ResourceKind = "chat"
	KindMessage     ResourceKind = "message"
	KindUserRecord  ResourceKind = "user"
)

// ResourceDescriptor is the ownership projection of a resource used only for
// authorization. Which fields are set depends on Kind:
//
//	job          ID, RecruiterID, JobStatus
//	application  ID, OwnerID (applicant), JobID, RecruiterID and JobStatus of the parent job
//	saved_job    ID, OwnerID, JobID, RecruiterID of the parent job
//	chat         ID, Participants
//	message      ID, OwnerID (sender), Participants of the parent chat
//	user         ID, OwnerID (same account)
//
// Creation targets leave ID empty.
type ResourceDescriptor struct {
	Kind         ResourceKind
	ID           string
	OwnerID      string
	RecruiterID  string
	JobID        string
	JobStatus    JobStatus
	Participants []string
}

// HasParticipant reports whether accountID is among the descriptor's participants.
func (d ResourceDescriptor) HasParticipant(accountID string) bool {
	for _, p := range d.Participants {
		if p == accountID {
			return true
		}
	}
	return false
}

func JobDescriptor(job *Job) ResourceDescriptor {
	return ResourceDescriptor{
		Kind:        KindJob,
		ID:          job.ID,
		RecruiterID: job.RecruiterID,
		JobID:       job.ID,
		JobStatus:   job.Status,
	}
}

// ApplicationDescriptor projects an application together with its parent job,
// which must be the current record so a job transfer is honored immediately.
func ApplicationDescriptor(app *Application, parent *Job) ResourceDescriptor {
	return ResourceDescriptor{
		Kind:        KindApplication,
		ID:          app.ID,
		OwnerID:     app.UserID,
		RecruiterID: parent.RecruiterID,
		JobID:       parent.ID,
		JobStatus:   parent.Status,
	}
}

func SavedJobDescriptor(saved *SavedJob, parent *Job) ResourceDescriptor {
	return ResourceDescriptor{
		Kind:        KindSavedJob,
		ID:          saved.ID,
		OwnerID:     saved.UserID,
		RecruiterID: parent.RecruiterID,
		JobID:       parent.ID,
		JobStatus:   parent.Status,
	}
}

func ChatDescriptor(chat *Chat) ResourceDescriptor {
	return ResourceDescriptor{
		Kind:         KindChat,
		ID:           chat.ID,
		Participants: append([]string(nil), chat.Participants...),
	}
}

func MessageDescriptor(msg *Message, parent *Chat) ResourceDescriptor {
	return ResourceDescriptor{
		Kind:         KindMessage,
		ID:           msg.ID,
		OwnerID:      msg.SenderID,
		Participants: append([]string(nil), parent.Participants...),
	}
}

func UserDescriptor(account *Account) ResourceDescriptor {
	return ResourceDescriptor{Kind: KindUserRecord, ID: account.ID, OwnerID: account.ID}
}

// NewJobTarget describes a job that does not exist yet.
func NewJobTarget() ResourceDescriptor {
	return ResourceDescriptor{Kind: KindJob}
}

// NewChatTarget describes a chat about to be opened between participants.
func NewChatTarget(participants ...string) ResourceDescriptor {
	return ResourceDescriptor{Kind: KindChat, Participants: participants}
}

// NewAccountTarget describes an account about to be created by an admin.
func NewAccountTarget() ResourceDescriptor {
	return ResourceDescriptor{Kind: KindUserRecord}
}

// AuditEntry records a noteworthy authorization outcome.
type AuditEntry struct {
	ActorID    string       `bson:"actor_id"`
	ActorRole  Role         `bson:"actor_role"`
	Action     Action       `bson:"action"`
	Kind       ResourceKind `bson:"kind"`
	ResourceID string       `bson:"resource_id,omitempty"`
	Allowed    bool         `bson:"allowed"`
	Reason     Reason       `bson:"reason"`
	At         time.Time    `bson:"at"`
}
