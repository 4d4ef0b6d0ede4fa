package lifecycle

import (
	"context"
	"errors"
	"time"

	"projecthub/metrics"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SupersedePolicy decides what happens to competing pending applications
// when one application for the same project is approved.
type SupersedePolicy string

const (
	// LeavePending keeps competing applications PENDING. They stay inert
	// because approval requires an OPEN project.
	LeavePending SupersedePolicy = "leave_pending"
	// AutoReject moves competing applications to REJECTED in the approving
	// transaction.
	AutoReject SupersedePolicy = "auto_reject"
)

func (p SupersedePolicy) Valid() bool {
	return p == LeavePending || p == AutoReject
}

// Engine applies the project and application lifecycle rules. It never reads
// ambient identity: every operation takes the resolved actor.
type Engine struct {
	store    Store
	profiles ProfileChecker
	events   EventSink
	policy   SupersedePolicy
	now      func() time.Time
	log      logrus.FieldLogger
}

type Option func(*Engine)

// WithClock overrides the time source used for lifecycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithPolicy(p SupersedePolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine builds an engine. events may be nil, in which case completion
// side effects are not emitted.
func NewEngine(store Store, profiles ProfileChecker, events EventSink, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		profiles: profiles,
		events:   events,
		policy:   LeavePending,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// stampTime returns the current time, never earlier than the latest
// lifecycle timestamp already recorded on p.
func (e *Engine) stampTime(p *models.Project) time.Time {
	now := e.now()
	if latest := latestStamp(p); now.Before(latest) {
		return latest
	}
	return now
}

func (e *Engine) committed(p *models.Project, from models.ProjectStatus, actor *models.Actor) {
	metrics.RecordTransition(string(from), string(p.Status))
	e.log.WithFields(logrus.Fields{
		"project_id": p.ID,
		"from":       from,
		"to":         p.Status,
		"actor_id":   actor.ID,
	}).Info("project status changed")
}

// CreateProject posts a new project owned by the actor, in DRAFT when
// asDraft is set and OPEN otherwise.
func (e *Engine) CreateProject(ctx context.Context, actor *models.Actor, fields models.ProjectFields, asDraft bool) (*models.Project, error) {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can post projects"); err != nil {
		return nil, err
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	now := e.now()
	p := &models.Project{
		ID:              uuid.New(),
		BusinessOwnerID: actor.ID,
		Status:          models.ProjectOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if asDraft {
		p.Status = models.ProjectDraft
	}
	fields.Apply(p)

	if err := e.store.InsertProject(ctx, p); err != nil {
		return nil, internal("create project", err)
	}

	e.log.WithFields(logrus.Fields{
		"project_id": p.ID,
		"owner_id":   actor.ID,
		"status":     p.Status,
	}).Info("project created")
	return p, nil
}

// EditProject overwrites the mutable fields of a DRAFT or OPEN project.
func (e *Engine) EditProject(ctx context.Context, actor *models.Actor, projectID uuid.UUID, fields models.ProjectFields) (*models.Project, error) {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can edit projects"); err != nil {
		return nil, err
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	var out *models.Project
	err := e.inTx(ctx, "edit project", func(tx Tx) error {
		p, err := ownedProject(ctx, tx, projectID, actor)
		if err != nil {
			return err
		}
		if !Editable(p.Status) {
			return forbidden("project can no longer be edited in status %s", p.Status)
		}
		fields.Apply(p)
		p.UpdatedAt = e.now()
		if err := tx.UpdateProject(ctx, p, p.Status); err != nil {
			return storeError("update project", err, "project status changed while editing")
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PublishDraft moves a DRAFT project to OPEN.
func (e *Engine) PublishDraft(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.Project, error) {
	return e.ownerTransition(ctx, actor, projectID, models.ProjectOpen,
		func(s models.ProjectStatus) bool { return s == models.ProjectDraft },
		"only draft projects can be published")
}

// ArchiveProject withdraws a DRAFT or OPEN project from listing.
func (e *Engine) ArchiveProject(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.Project, error) {
	return e.ownerTransition(ctx, actor, projectID, models.ProjectArchived, Archivable,
		"only draft or open projects can be archived")
}

// UnarchiveProject reopens an ARCHIVED project.
func (e *Engine) UnarchiveProject(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.Project, error) {
	return e.ownerTransition(ctx, actor, projectID, models.ProjectOpen,
		func(s models.ProjectStatus) bool { return s == models.ProjectArchived },
		"only archived projects can be unarchived")
}

// CancelProject terminates an OPEN project that will not be assigned.
func (e *Engine) CancelProject(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.Project, error) {
	return e.ownerTransition(ctx, actor, projectID, models.ProjectCancelled,
		func(s models.ProjectStatus) bool { return s == models.ProjectOpen },
		"only open projects can be cancelled")
}

// ownerTransition moves an owned project to `to` when allowed(current) holds.
func (e *Engine) ownerTransition(ctx context.Context, actor *models.Actor, projectID uuid.UUID, to models.ProjectStatus, allowed func(models.ProjectStatus) bool, rule string) (*models.Project, error) {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can manage projects"); err != nil {
		return nil, err
	}

	var (
		out  *models.Project
		from models.ProjectStatus
	)
	err := e.inTx(ctx, "update project status", func(tx Tx) error {
		p, err := ownedProject(ctx, tx, projectID, actor)
		if err != nil {
			return err
		}
		if !allowed(p.Status) {
			return invalidTransition("%s (current status %s)", rule, p.Status)
		}
		from = p.Status
		p.Status = to
		p.UpdatedAt = e.now()
		if err := tx.UpdateProject(ctx, p, from); err != nil {
			return storeError("update project status", err, "project status changed concurrently")
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.committed(out, from, actor)
	return out, nil
}

// DeleteProject physically removes a DRAFT or OPEN project together with
// its applications.
func (e *Engine) DeleteProject(ctx context.Context, actor *models.Actor, projectID uuid.UUID) error {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can delete projects"); err != nil {
		return err
	}
	err := e.inTx(ctx, "delete project", func(tx Tx) error {
		p, err := ownedProject(ctx, tx, projectID, actor)
		if err != nil {
			return err
		}
		if !Deletable(p.Status) {
			return forbidden("project can no longer be deleted in status %s", p.Status)
		}
		if err := tx.DeleteProject(ctx, p.ID, p.Status); err != nil {
			return storeError("delete project", err, "project status changed while deleting")
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.WithField("project_id", projectID).Info("project deleted")
	return nil
}

// AdvanceProjectStatus moves an assigned project one step along
// ASSIGNED -> IN_PROGRESS -> IN_REVIEW -> COMPLETED. Reaching COMPLETED
// emits a completion event after the commit.
func (e *Engine) AdvanceProjectStatus(ctx context.Context, actor *models.Actor, projectID uuid.UUID, target models.ProjectStatus) (*models.Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var (
		out  *models.Project
		from models.ProjectStatus
	)
	err := e.inTx(ctx, "advance project status", func(tx Tx) error {
		p, err := tx.GetProject(ctx, projectID)
		if errors.Is(err, ErrNotFound) {
			return forbidden("project not found or caller is not a participant")
		}
		if err != nil {
			return internal("load project", err)
		}
		if !p.IsOwnedBy(actor.ID) && !p.IsAssignedTo(actor.ID) {
			return forbidden("project not found or caller is not a participant")
		}
		if !CanAdvance(p.Status, target) {
			return invalidTransition("cannot move project from %s to %s", p.Status, target)
		}
		if !mayAdvance(p, actor, target) {
			return forbidden("only the business owner can complete a project")
		}

		from = p.Status
		at := e.stampTime(p)
		p.Status = target
		p.UpdatedAt = at
		stamp(p, target, at)
		if err := tx.UpdateProject(ctx, p, from); err != nil {
			return storeError("advance project status", err, "project status changed concurrently")
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.committed(out, from, actor)
	if out.Status == models.ProjectCompleted {
		e.emitCompletion(out)
	}
	return out, nil
}

// emitCompletion hands the completion to the event sink. It runs after the
// commit and cannot fail the transition.
func (e *Engine) emitCompletion(p *models.Project) {
	if p.AssignedStudentID == nil {
		e.log.WithField("project_id", p.ID).Warn("completed project has no assigned student, skipping stats")
		return
	}
	if e.events == nil {
		return
	}
	ev := models.CompletionEvent{
		ProjectID:   p.ID,
		AccountID:   *p.AssignedStudentID,
		Scope:       p.Scope,
		Hours:       models.HoursForScope(p.Scope),
		CompletedAt: *p.CompletedAt,
	}
	if !e.events.Emit(ev) {
		e.log.WithFields(logrus.Fields{
			"project_id": p.ID,
			"account_id": ev.AccountID,
		}).Error("completion event was not accepted")
	}
}

// GetProject returns a project visible to the actor. OPEN projects are
// public; others are visible to their owner, assigned student and admins.
// Invisible projects are reported as not found.
func (e *Engine) GetProject(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p, err := e.store.GetProject(ctx, projectID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("project not found")
	}
	if err != nil {
		return nil, internal("load project", err)
	}
	if p.Status == models.ProjectOpen || p.IsOwnedBy(actor.ID) || p.IsAssignedTo(actor.ID) ||
		actor.Role.Can(models.CapReadAnyProject) {
		return p, nil
	}
	return nil, notFound("project not found")
}

// ListProjects lists projects. Callers see their own projects in any status
// when filtering by themselves as owner, admins see everything, everyone
// else sees OPEN projects only.
func (e *Engine) ListProjects(ctx context.Context, actor *models.Actor, filter models.ProjectFilter) ([]models.Project, int64, error) {
	if err := requireActor(actor); err != nil {
		return nil, 0, err
	}
	own := filter.OwnerID != nil && *filter.OwnerID == actor.ID
	if !own && !actor.Role.Can(models.CapReadAnyProject) {
		if filter.Status != "" && filter.Status != models.ProjectOpen {
			return nil, 0, forbidden("only open projects are publicly listed")
		}
		filter.Status = models.ProjectOpen
	}
	projects, total, err := e.store.ListProjects(ctx, filter)
	if err != nil {
		return nil, 0, internal("list projects", err)
	}
	return projects, total, nil
}

// inTx runs fn in a store transaction. Failures that are not engine errors,
// such as a failed commit, become KindInternal.
func (e *Engine) inTx(ctx context.Context, op string, fn func(tx Tx) error) error {
	err := e.store.InTx(ctx, fn)
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	return internal(op, err)
}
