package handler

import (
	"time"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"`
	Role     string `json:"role"     validate:"omitempty,oneof=user recruiter"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *domain.Account `json:"account"`
}

// --- Accounts ---

type createAccountRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"`
	Role     string `json:"role"     validate:"required,oneof=user recruiter admin"`
	Status   string `json:"status"   validate:"omitempty,oneof=active inactive pending"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user recruiter admin"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// --- Jobs ---

type createJobRequest struct {
	Title       string `json:"title"       validate:"required"`
	Company     string `json:"company"     validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type updateJobRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1"`
	Company     *string `json:"company"     validate:"omitempty,min=1"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitempty,oneof=active closed"`
}

func (r updateJobRequest) toDomain() domain.JobUpdate {
	u := domain.JobUpdate{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Description: r.Description,
	}
	if r.Status != nil {
		s := domain.JobStatus(*r.Status)
		u.Status = &s
	}
	return u
}

// --- Applications ---

type applyRequest struct {
	CoverLetter string `json:"cover_letter" validate:"max=5000"`
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewing accepted rejected"`
}

// --- Chats ---

type openChatRequest struct {
	PeerID string `json:"peer_id" validate:"required"`
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

type chatResponse struct {
	Chat     *domain.Chat      `json:"chat"`
	Messages []*domain.Message `json:"messages"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}
