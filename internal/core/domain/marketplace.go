package domain

import (
	"sort"
	"strings"
	"time"
)

// JobStatus represents whether a job posting accepts applications.
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
)

// ApplicationStatus represents where an application is in the hiring flow.
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationApplied, ApplicationReviewing, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether an application may move from s to next.
// accepted and rejected are terminal.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationApplied:
		return next == ApplicationReviewing || next == ApplicationAccepted || next == ApplicationRejected
	case ApplicationReviewing:
		return next == ApplicationAccepted || next == ApplicationRejected
	}
	return false
}

// Job is a posting owned by a recruiter.
type Job struct {
	ID          string    `json:"id" bson:"_id"`
	RecruiterID string    `json:"recruiter_id" bson:"recruiter_id"`
	Title       string    `json:"title" bson:"title"`
	Company     string    `json:"company" bson:"company"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Status      JobStatus `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// JobUpdate carries the editable job fields; nil means unchanged.
type JobUpdate struct {
	Title       *string
	Company     *string
	Location    *string
	Description *string
	Status      *JobStatus
}

// Application is a job seeker's submission to a job. At most one exists per
// (UserID, JobID).
type Application struct {
	ID          string            `json:"id" bson:"_id"`
	UserID      string            `json:"user_id" bson:"user_id"`
	JobID       string            `json:"job_id" bson:"job_id"`
	Status      ApplicationStatus `json:"status" bson:"status"`
	CoverLetter string            `json:"cover_letter,omitempty" bson:"cover_letter,omitempty"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

// SavedJob is a bookmark. At most one exists per (UserID, JobID).
type SavedJob struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	JobID     string    `json:"job_id" bson:"job_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Chat is a conversation between participants. Non-group chats are unique per
// unordered participant pair, tracked through PairKey.
type Chat struct {
	ID           string    `json:"id" bson:"_id"`
	Participants []string  `json:"participants" bson:"participants"`
	IsGroup      bool      `json:"is_group" bson:"is_group"`
	PairKey      string    `json:"-" bson:"pair_key,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// HasParticipant reports whether accountID belongs to the chat.
func (c *Chat) HasParticipant(accountID string) bool {
	for _, p := range c.Participants {
		if p == accountID {
			return true
		}
	}
	return false
}

// Message belongs to a chat; the sender was a participant at send time.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	ChatID    string    `json:"chat_id" bson:"chat_id"`
	SenderID  string    `json:"sender_id" bson:"sender_id"`
	Body      string    `json:"body" bson:"body"`
	ReadBy    []string  `json:"read_by" bson:"read_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// PairKey returns the order-independent key for a direct chat between a and b.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}
