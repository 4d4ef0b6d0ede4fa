package lifecycle

import (
	"context"
	"errors"

	"projecthub/models"

	"github.com/google/uuid"
)

// requireActor rejects anonymous callers.
func requireActor(actor *models.Actor) error {
	if actor == nil || !actor.Role.Valid() {
		return unauthenticated()
	}
	return nil
}

// requireCapability rejects callers whose role does not grant c. It runs
// before any entity is read.
func requireCapability(actor *models.Actor, c models.Capability, msg string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.Can(c) {
		return forbidden("%s", msg)
	}
	return nil
}

// ownedProject loads a project the actor must own. A missing project is
// reported as Forbidden so callers cannot probe for ids.
func ownedProject(ctx context.Context, tx Tx, id uuid.UUID, actor *models.Actor) (*models.Project, error) {
	p, err := tx.GetProject(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, forbidden("project not found or not owned by caller")
	}
	if err != nil {
		return nil, internal("load project", err)
	}
	if !p.IsOwnedBy(actor.ID) {
		return nil, forbidden("project not found or not owned by caller")
	}
	return p, nil
}

// ownApplication loads an application submitted by the actor.
func ownApplication(ctx context.Context, tx Tx, id uuid.UUID, actor *models.Actor) (*models.Application, error) {
	a, err := tx.GetApplication(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, forbidden("application not found or not submitted by caller")
	}
	if err != nil {
		return nil, internal("load application", err)
	}
	if a.ApplicantID != actor.ID {
		return nil, forbidden("application not found or not submitted by caller")
	}
	return a, nil
}

// applicationForOwner loads an application together with its project and
// checks that the actor owns the project.
func applicationForOwner(ctx context.Context, tx Tx, id uuid.UUID, actor *models.Actor) (*models.Application, *models.Project, error) {
	a, err := tx.GetApplication(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, forbidden("application not found or project not owned by caller")
	}
	if err != nil {
		return nil, nil, internal("load application", err)
	}
	p, err := tx.GetProject(ctx, a.ProjectID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, internal("load project", err)
	}
	if p == nil || !p.IsOwnedBy(actor.ID) {
		return nil, nil, forbidden("application not found or project not owned by caller")
	}
	return a, p, nil
}
