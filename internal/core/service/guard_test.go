package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/access-core/internal/core/domain"
)

func TestAccessGuard_AuthorizeAllowsOwner(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.jobs.Create(context.Background(), &domain.Job{ID: "j1", RecruiterID: "r1", Status: domain.JobActive}))

	d, err := f.guard.Authorize(context.Background(), testActor("r1", domain.RoleRecruiter), domain.ActionUpdate, domain.KindJob, "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", d.ID)
	assert.Empty(t, f.audit.all())
}

func TestAccessGuard_DenialIsTypedAndAudited(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.jobs.Create(context.Background(), &domain.Job{ID: "j1", RecruiterID: "r1", Status: domain.JobActive}))

	_, err := f.guard.Authorize(context.Background(), testActor("r2", domain.RoleRecruiter), domain.ActionUpdate, domain.KindJob, "j1")
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)

	entries := f.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "r2", entries[0].ActorID)
	assert.False(t, entries[0].Allowed)
	assert.Equal(t, domain.ReasonForbidden, entries[0].Reason)
	assert.Equal(t, "j1", entries[0].ResourceID)
}

func TestAccessGuard_AdminActionOnAccountIsAudited(t *testing.T) {
	f := newFixture()
	_, err := f.accounts.Create(context.Background(), &domain.Account{ID: "u1", Email: "u1@example.com", Role: domain.RoleUser, Status: domain.StatusActive})
	require.NoError(t, err)

	_, err = f.guard.Authorize(context.Background(), testActor("a1", domain.RoleAdmin), domain.ActionDeactivate, domain.KindUserRecord, "u1")
	require.NoError(t, err)

	entries := f.audit.all()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Allowed)
	assert.Equal(t, domain.ReasonAdmin, entries[0].Reason)
}

func TestAccessGuard_InconsistentStateFailsClosed(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.apps.Create(context.Background(), &domain.Application{ID: "a1", UserID: "u1", JobID: "gone"}))

	// Even the applicant is refused when the parent job is missing.
	_, err := f.guard.Authorize(context.Background(), testActor("u1", domain.RoleUser), domain.ActionRead, domain.KindApplication, "a1")
	require.ErrorIs(t, err, domain.ErrInconsistentState)

	entries := f.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ReasonInconsistentState, entries[0].Reason)
}

func TestAccessGuard_NotFoundIsNotAudited(t *testing.T) {
	f := newFixture()

	_, err := f.guard.Authorize(context.Background(), testActor("u1", domain.RoleUser), domain.ActionRead, domain.KindJob, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.audit.all())
}

func TestAccessGuard_CheckCreationTarget(t *testing.T) {
	f := newFixture()

	err := f.guard.Check(context.Background(), testActor("u1", domain.RoleUser), domain.ActionCreate, domain.NewJobTarget())
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)

	err = f.guard.Check(context.Background(), testActor("r1", domain.RoleRecruiter), domain.ActionCreate, domain.NewJobTarget())
	assert.NoError(t, err)
}

func TestAccessGuard_CheckHonorsCancellation(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.guard.Check(ctx, testActor("r1", domain.RoleRecruiter), domain.ActionCreate, domain.NewJobTarget())
	assert.ErrorIs(t, err, context.Canceled)
}
