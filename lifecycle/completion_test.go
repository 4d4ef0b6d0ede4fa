package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingNotifier struct {
	calls int
}

func (n *failingNotifier) IncrementStats(context.Context, uuid.UUID, models.StatsIncrement) error {
	n.calls++
	return errors.New("stats service unavailable")
}

func (n *failingNotifier) RecalculateBadges(context.Context, uuid.UUID) error {
	panic("badge service exploded")
}

// Completion stands even when every side effect fails.
func TestCompletion_NotifierFailureDoesNotUndoTransition(t *testing.T) {
	h := newHarness(t)
	notifier := &failingNotifier{}
	logger, _ := test.NewNullLogger()
	dispatcher := lifecycle.NewDispatcher(notifier, 4, logger)
	engine := lifecycle.NewEngine(h.store, h.store, dispatcher, lifecycle.WithClock(h.clock.Now), lifecycle.WithLogger(logger))
	h.engine = engine

	p, student := h.assignedProject()
	h.advance(student, p.ID, models.ProjectInProgress)
	h.advance(student, p.ID, models.ProjectInReview)
	done := h.advance(h.owner, p.ID, models.ProjectCompleted)
	dispatcher.Close()

	assert.Equal(t, models.ProjectCompleted, done.Status)
	assert.Equal(t, 1, notifier.calls)

	stored, err := h.store.GetProject(h.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, stored.Status)
}

func TestCompletion_UpdatesStoredStats(t *testing.T) {
	h := newHarness(t)
	logger, _ := test.NewNullLogger()
	dispatcher := lifecycle.NewDispatcher(h.store, 4, logger)
	h.engine = lifecycle.NewEngine(h.store, h.store, dispatcher, lifecycle.WithClock(h.clock.Now), lifecycle.WithLogger(logger))

	p, student := h.assignedProject()
	h.advance(student, p.ID, models.ProjectInProgress)
	h.advance(h.owner, p.ID, models.ProjectInReview)
	h.advance(h.owner, p.ID, models.ProjectCompleted)
	dispatcher.Close()

	stats, err := h.store.GetStats(h.ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProjectsCompleted)
	assert.Equal(t, 40, stats.HoursContributed)
	assert.True(t, h.store.BadgeRecalculationPending(student.ID))
}
