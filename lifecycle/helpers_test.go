package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"projecthub/database"
	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.CompletionEvent
	reject bool
}

func (s *recordingSink) Emit(ev models.CompletionEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject {
		return false
	}
	s.events = append(s.events, ev)
	return true
}

func (s *recordingSink) Events() []models.CompletionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CompletionEvent(nil), s.events...)
}

type harness struct {
	t      *testing.T
	ctx    context.Context
	store  *database.MemoryStore
	clock  *fakeClock
	sink   *recordingSink
	logs   *test.Hook
	engine *lifecycle.Engine
	owner  *models.Actor
}

func newHarness(t *testing.T, opts ...lifecycle.Option) *harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	h := &harness{
		t:     t,
		ctx:   context.Background(),
		store: database.NewMemoryStore(),
		clock: &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		sink:  &recordingSink{},
		logs:  hook,
	}
	opts = append([]lifecycle.Option{
		lifecycle.WithClock(h.clock.Now),
		lifecycle.WithLogger(logger),
	}, opts...)
	h.engine = lifecycle.NewEngine(h.store, h.store, h.sink, opts...)
	h.owner = h.account(models.RoleBusinessOwner)
	return h
}

func (h *harness) account(role models.Role) *models.Actor {
	h.t.Helper()
	account, err := h.store.CreateAccount(h.ctx, "ext-"+uuid.NewString(), role)
	require.NoError(h.t, err)
	return account.Actor()
}

// student returns a USER account with a complete profile.
func (h *harness) student() *models.Actor {
	h.t.Helper()
	actor := h.account(models.RoleUser)
	require.NoError(h.t, h.store.SaveProfile(h.ctx, models.Profile{
		AccountID: actor.ID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Bio:       "Compiler enthusiast",
		Intro:     "Happy to help",
		Skills:    []string{"cobol"},
		Education: []string{"Yale"},
	}))
	return actor
}

func (h *harness) fields() models.ProjectFields {
	now := h.clock.Now()
	return models.ProjectFields{
		Title:               "Inventory dashboard",
		Description:         "Track stock levels across stores",
		Skills:              []string{"go", "sql"},
		Scope:               models.ScopeIntermediate,
		ApplicationDeadline: now.Add(7 * 24 * time.Hour),
		StartDate:           now.Add(14 * 24 * time.Hour),
		EstimatedEndDate:    now.Add(42 * 24 * time.Hour),
	}
}

func (h *harness) openProject() *models.Project {
	h.t.Helper()
	p, err := h.engine.CreateProject(h.ctx, h.owner, h.fields(), false)
	require.NoError(h.t, err)
	return p
}

func (h *harness) apply(student *models.Actor, projectID uuid.UUID) *models.Application {
	h.t.Helper()
	app, err := h.engine.SubmitApplication(h.ctx, student, projectID, "I can do this")
	require.NoError(h.t, err)
	return app
}

// assignedProject returns an ASSIGNED project and its student.
func (h *harness) assignedProject() (*models.Project, *models.Actor) {
	h.t.Helper()
	p := h.openProject()
	student := h.student()
	app := h.apply(student, p.ID)
	h.clock.Advance(time.Hour)
	_, p, err := h.engine.ApproveApplication(h.ctx, h.owner, app.ID)
	require.NoError(h.t, err)
	return p, student
}

func (h *harness) advance(actor *models.Actor, projectID uuid.UUID, to models.ProjectStatus) *models.Project {
	h.t.Helper()
	h.clock.Advance(time.Hour)
	p, err := h.engine.AdvanceProjectStatus(h.ctx, actor, projectID, to)
	require.NoError(h.t, err)
	return p
}

func requireKind(t *testing.T, err error, kind lifecycle.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, lifecycle.KindOf(err), "error: %v", err)
}

