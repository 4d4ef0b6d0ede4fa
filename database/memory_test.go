package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InTxRollsBack(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(uuid.New())

	err := store.InTx(ctx, func(tx lifecycle.Tx) error {
		require.NoError(t, tx.InsertProject(ctx, p))
		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = store.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestMemoryStore_InTxCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	p := newTestProject(uuid.New())

	err := store.InTx(ctx, func(tx lifecycle.Tx) error {
		require.NoError(t, tx.InsertProject(ctx, p))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.GetProject(context.Background(), p.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(uuid.New())
	require.NoError(t, store.InsertProject(ctx, p))

	got, err := store.GetProject(ctx, p.ID)
	require.NoError(t, err)
	got.Skills[0] = "changed"
	got.Status = models.ProjectArchived

	again, err := store.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "go", again.Skills[0])
	assert.Equal(t, models.ProjectOpen, again.Status)
}

func TestMemoryStore_UpdateProject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(uuid.New())
	require.NoError(t, store.InsertProject(ctx, p))

	p.Status = models.ProjectAssigned
	assert.Error(t, store.UpdateProject(ctx, p, models.ProjectOpen), "assignee required")

	student := uuid.New()
	p.AssignedStudentID = &student
	assert.ErrorIs(t, store.UpdateProject(ctx, p, models.ProjectDraft), lifecycle.ErrStaleStatus)
	require.NoError(t, store.UpdateProject(ctx, p, models.ProjectOpen))

	got, err := store.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAssignedTo(student))
}

func TestMemoryStore_ListProjects(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := newTestProject(owner)
		p.CreatedAt = p.CreatedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.InsertProject(ctx, p))
		ids = append(ids, p.ID)
	}
	other := newTestProject(uuid.New())
	other.Status = models.ProjectDraft
	require.NoError(t, store.InsertProject(ctx, other))

	projects, total, err := store.ListProjects(ctx, models.ProjectFilter{OwnerID: &owner})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, projects, 3)
	assert.Equal(t, ids[2], projects[0].ID, "newest first")

	projects, total, err = store.ListProjects(ctx, models.ProjectFilter{Status: models.ProjectDraft})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, other.ID, projects[0].ID)

	projects, total, err = store.ListProjects(ctx, models.ProjectFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, projects, 1)

	projects, _, err = store.ListProjects(ctx, models.ProjectFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestMemoryStore_Applications(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(uuid.New())
	require.NoError(t, store.InsertProject(ctx, p))

	student := uuid.New()
	app := newTestApplication(p.ID, student)
	require.NoError(t, store.InsertApplication(ctx, app))
	assert.ErrorIs(t, store.InsertApplication(ctx, newTestApplication(p.ID, student)), lifecycle.ErrDuplicate)

	found, err := store.FindActiveApplication(ctx, p.ID, student)
	require.NoError(t, err)
	assert.Equal(t, app.ID, found.ID)

	app.Status = models.ApplicationWithdrawn
	require.NoError(t, store.UpdateApplication(ctx, app, models.ApplicationPending))
	_, err = store.FindActiveApplication(ctx, p.ID, student)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
	require.NoError(t, store.InsertApplication(ctx, newTestApplication(p.ID, student)))

	require.NoError(t, store.DeleteProject(ctx, p.ID, models.ProjectOpen))
	apps, err := store.ListApplicationsByApplicant(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestMemoryStore_SingleAccepted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(uuid.New())
	require.NoError(t, store.InsertProject(ctx, p))

	a := newTestApplication(p.ID, uuid.New())
	b := newTestApplication(p.ID, uuid.New())
	require.NoError(t, store.InsertApplication(ctx, a))
	require.NoError(t, store.InsertApplication(ctx, b))

	a.Status = models.ApplicationAccepted
	require.NoError(t, store.UpdateApplication(ctx, a, models.ApplicationPending))
	b.Status = models.ApplicationAccepted
	assert.ErrorIs(t, store.UpdateApplication(ctx, b, models.ApplicationPending), lifecycle.ErrDuplicate)
}

func TestMemoryStore_AccountsAndProfiles(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account, err := store.CreateAccount(ctx, "auth0|1", models.RoleUser)
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, "auth0|1", models.RoleUser)
	assert.ErrorIs(t, err, lifecycle.ErrDuplicate)

	actor, err := store.ResolveActor(ctx, "auth0|1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, actor.ID)
	_, err = store.ResolveActor(ctx, "auth0|2")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	check, err := store.CheckProfile(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, check.OK)

	require.NoError(t, store.SaveProfile(ctx, models.Profile{
		AccountID: account.ID, FirstName: "A", LastName: "B", Bio: "C", Intro: "D",
		Skills: []string{"go"}, Education: []string{"MIT"},
	}))
	check, err = store.CheckProfile(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, check.OK)
}

func TestMemoryStore_IncrementStatsOncePerProject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	student := uuid.New()
	inc := models.StatsIncrement{ProjectID: uuid.New(), ProjectsCompleted: 1, HoursContributed: 80}

	require.NoError(t, store.IncrementStats(ctx, student, inc))
	require.NoError(t, store.IncrementStats(ctx, student, inc))

	stats, err := store.GetStats(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProjectsCompleted)
	assert.Equal(t, 80, stats.HoursContributed)

	assert.False(t, store.BadgeRecalculationPending(student))
	require.NoError(t, store.RecalculateBadges(ctx, student))
	assert.True(t, store.BadgeRecalculationPending(student))
}
