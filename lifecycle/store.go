package lifecycle

import (
	"context"
	"errors"

	"projecthub/models"

	"github.com/google/uuid"
)

// Store errors. Implementations wrap or return these so the engine can map
// them onto its error kinds.
var (
	ErrNotFound    = errors.New("record not found")
	ErrStaleStatus = errors.New("status changed concurrently")
	ErrDuplicate   = errors.New("duplicate record")
)

// Tx is the set of reads and writes the engine performs. Every Update and
// Delete is conditional on the status the caller last observed and returns
// ErrStaleStatus when the stored status differs.
type Tx interface {
	InsertProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project, expected models.ProjectStatus) error
	DeleteProject(ctx context.Context, id uuid.UUID, expected models.ProjectStatus) error
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int64, error)

	InsertApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindActiveApplication(ctx context.Context, projectID, applicantID uuid.UUID) (*models.Application, error)
	UpdateApplication(ctx context.Context, a *models.Application, expected models.ApplicationStatus) error
	ListApplicationsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error)
}

// Store is a Tx that can also open transactions. InTx commits when fn
// returns nil and rolls back otherwise.
type Store interface {
	Tx
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// ProfileChecker reports whether a student's profile is complete enough to
// apply to projects.
type ProfileChecker interface {
	CheckProfile(ctx context.Context, accountID uuid.UUID) (models.ProfileCheck, error)
}

// Notifier receives completion side effects. Calls may be repeated for the
// same project and must tolerate it.
type Notifier interface {
	IncrementStats(ctx context.Context, accountID uuid.UUID, inc models.StatsIncrement) error
	RecalculateBadges(ctx context.Context, accountID uuid.UUID) error
}

// EventSink accepts completion events after the transition has committed.
type EventSink interface {
	Emit(ev models.CompletionEvent) bool
}
