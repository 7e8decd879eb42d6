package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/authz"
	"github.com/talentbridge/access-core/internal/core/domain"
)

// In-memory stores used across the service tests. Each one enforces the same
// uniqueness constraints the Mongo indexes do.

type memAccounts struct {
	mu   sync.Mutex
	byID map[string]*domain.Account
	seq  int
}

func newMemAccounts(accounts ...*domain.Account) *memAccounts {
	s := &memAccounts{byID: make(map[string]*domain.Account)}
	for _, a := range accounts {
		clone := *a
		s.byID[a.ID] = &clone
	}
	return s
}

func (s *memAccounts) FindByNormalizedEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
}

func (s *memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	clone := *a
	return &clone, nil
}

func (s *memAccounts) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *account
	if clone.ID == "" {
		s.seq++
		clone.ID = fmt.Sprintf("acc-%d", s.seq)
	}
	stored := clone
	s.byID[clone.ID] = &stored
	return &clone, nil
}

func (s *memAccounts) Update(_ context.Context, id string, fields domain.AccountUpdate) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	if fields.Name != nil {
		a.Name = *fields.Name
	}
	if fields.Role != nil {
		a.Role = *fields.Role
	}
	if fields.Status != nil {
		a.Status = *fields.Status
	}
	if fields.PasswordHash != nil {
		a.PasswordHash = *fields.PasswordHash
	}
	a.UpdatedAt = time.Now().UTC()
	clone := *a
	return &clone, nil
}

func (s *memAccounts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

type memJobs struct {
	mu   sync.Mutex
	byID map[string]*domain.Job
}

func newMemJobs(jobs ...*domain.Job) *memJobs {
	s := &memJobs{byID: make(map[string]*domain.Job)}
	for _, j := range jobs {
		clone := *j
		s.byID[j.ID] = &clone
	}
	return s
}

func (s *memJobs) FindByID(_ context.Context, id string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	clone := *j
	return &clone, nil
}

func (s *memJobs) Create(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *job
	s.byID[job.ID] = &clone
	return nil
}

func (s *memJobs) Update(_ context.Context, id string, fields domain.JobUpdate) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	if fields.Title != nil {
		j.Title = *fields.Title
	}
	if fields.Company != nil {
		j.Company = *fields.Company
	}
	if fields.Location != nil {
		j.Location = *fields.Location
	}
	if fields.Description != nil {
		j.Description = *fields.Description
	}
	if fields.Status != nil {
		j.Status = *fields.Status
	}
	clone := *j
	return &clone, nil
}

func (s *memJobs) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

type memApplications struct {
	mu   sync.Mutex
	byID map[string]*domain.Application
}

func newMemApplications(apps ...*domain.Application) *memApplications {
	s := &memApplications{byID: make(map[string]*domain.Application)}
	for _, a := range apps {
		clone := *a
		s.byID[a.ID] = &clone
	}
	return s
}

func (s *memApplications) FindByID(_ context.Context, id string) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	clone := *a
	return &clone, nil
}

func (s *memApplications) Create(_ context.Context, app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return domain.ErrDuplicateApplication
		}
	}
	clone := *app
	s.byID[app.ID] = &clone
	return nil
}

func (s *memApplications) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	a.Status = status
	clone := *a
	return &clone, nil
}

func (s *memApplications) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

func (s *memApplications) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type memSavedJobs struct {
	mu   sync.Mutex
	byID map[string]*domain.SavedJob
}

func newMemSavedJobs(saved ...*domain.SavedJob) *memSavedJobs {
	s := &memSavedJobs{byID: make(map[string]*domain.SavedJob)}
	for _, sj := range saved {
		clone := *sj
		s.byID[sj.ID] = &clone
	}
	return s
}

func (s *memSavedJobs) FindByID(_ context.Context, id string) (*domain.SavedJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sj, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("saved job %s: %w", id, domain.ErrNotFound)
	}
	clone := *sj
	return &clone, nil
}

func (s *memSavedJobs) Create(_ context.Context, saved *domain.SavedJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sj := range s.byID {
		if sj.UserID == saved.UserID && sj.JobID == saved.JobID {
			return domain.ErrDuplicateSavedJob
		}
	}
	clone := *saved
	s.byID[saved.ID] = &clone
	return nil
}

func (s *memSavedJobs) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("saved job %s: %w", id, domain.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

func (s *memSavedJobs) ListByUser(_ context.Context, userID string) ([]*domain.SavedJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SavedJob
	for _, sj := range s.byID {
		if sj.UserID == userID {
			clone := *sj
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memChats struct {
	mu   sync.Mutex
	byID map[string]*domain.Chat
}

func newMemChats(chats ...*domain.Chat) *memChats {
	s := &memChats{byID: make(map[string]*domain.Chat)}
	for _, c := range chats {
		clone := *c
		s.byID[c.ID] = &clone
	}
	return s
}

func (s *memChats) FindByID(_ context.Context, id string) (*domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("chat %s: %w", id, domain.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (s *memChats) FindByPairKey(_ context.Context, pairKey string) (*domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if !c.IsGroup && c.PairKey == pairKey {
			clone := *c
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("chat pair %s: %w", pairKey, domain.ErrNotFound)
}

func (s *memChats) Create(_ context.Context, chat *domain.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !chat.IsGroup {
		for _, c := range s.byID {
			if !c.IsGroup && c.PairKey == chat.PairKey {
				return domain.ErrDuplicateChat
			}
		}
	}
	clone := *chat
	s.byID[chat.ID] = &clone
	return nil
}

type memMessages struct {
	mu   sync.Mutex
	byID map[string]*domain.Message
}

func newMemMessages(msgs ...*domain.Message) *memMessages {
	s := &memMessages{byID: make(map[string]*domain.Message)}
	for _, m := range msgs {
		clone := *m
		s.byID[m.ID] = &clone
	}
	return s
}

func (s *memMessages) FindByID(_ context.Context, id string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
	}
	clone := *m
	return &clone, nil
}

func (s *memMessages) Create(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *msg
	s.byID[msg.ID] = &clone
	return nil
}

func (s *memMessages) MarkRead(_ context.Context, id, accountID string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
	}
	seen := false
	for _, r := range m.ReadBy {
		if r == accountID {
			seen = true
		}
	}
	if !seen {
		m.ReadBy = append(m.ReadBy, accountID)
	}
	clone := *m
	clone.ReadBy = append([]string(nil), m.ReadBy...)
	return &clone, nil
}

func (s *memMessages) ListByChat(_ context.Context, chatID string, limit int) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Message
	for _, m := range s.byID {
		if m.ChatID == chatID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAudit) Enqueue(entry domain.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *recordingAudit) all() []domain.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AuditEntry(nil), a.entries...)
}

// fixture wires the in-memory stores, resolver and guard together.
type fixture struct {
	stores   Stores
	accounts *memAccounts
	jobs     *memJobs
	apps     *memApplications
	saved    *memSavedJobs
	chats    *memChats
	messages *memMessages
	audit    *recordingAudit
	resolver *OwnershipResolver
	guard    *AccessGuard
}

func newFixture() *fixture {
	f := &fixture{
		accounts: newMemAccounts(),
		jobs:     newMemJobs(),
		apps:     newMemApplications(),
		saved:    newMemSavedJobs(),
		chats:    newMemChats(),
		messages: newMemMessages(),
		audit:    &recordingAudit{},
	}
	f.stores = Stores{
		Accounts:     f.accounts,
		Jobs:         f.jobs,
		Applications: f.apps,
		SavedJobs:    f.saved,
		Chats:        f.chats,
		Messages:     f.messages,
	}
	f.resolver = NewOwnershipResolver(f.stores, zerolog.Nop())
	f.guard = NewAccessGuard(authz.New(), f.resolver, f.audit, zerolog.Nop())
	return f
}

func testActor(id string, role domain.Role) domain.ActorContext {
	return domain.ActorContext{AccountID: id, Role: role, Status: domain.StatusActive}
}
