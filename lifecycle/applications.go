package lifecycle

import (
	"context"
	"errors"
	"time"

	"projecthub/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubmitApplication creates a PENDING application by the actor for an OPEN
// project.
func (e *Engine) SubmitApplication(ctx context.Context, actor *models.Actor, projectID uuid.UUID, coverLetter string) (*models.Application, error) {
	if err := requireCapability(actor, models.CapApply, "only students can apply to projects"); err != nil {
		return nil, err
	}
	if coverLetter == "" {
		return nil, &Error{Kind: KindInvalid, Message: "invalid application", Fields: map[string]string{"cover_letter": "cover letter is required"}}
	}

	check, err := e.profiles.CheckProfile(ctx, actor.ID)
	if err != nil {
		return nil, internal("check profile", err)
	}
	if !check.OK {
		return nil, profileIncomplete(check.Missing)
	}

	var out *models.Application
	err = e.inTx(ctx, "submit application", func(tx Tx) error {
		p, err := tx.GetProject(ctx, projectID)
		if errors.Is(err, ErrNotFound) {
			return projectUnavailable()
		}
		if err != nil {
			return internal("load project", err)
		}
		if p.Status != models.ProjectOpen {
			return projectUnavailable()
		}

		if _, err := tx.FindActiveApplication(ctx, projectID, actor.ID); err == nil {
			return duplicateApplication()
		} else if !errors.Is(err, ErrNotFound) {
			return internal("look up application", err)
		}

		now := e.now()
		a := &models.Application{
			ID:              uuid.New(),
			ProjectID:       projectID,
			ApplicantID:     actor.ID,
			Status:          models.ApplicationPending,
			CoverLetter:     coverLetter,
			SeenByApplicant: true,
			AppliedAt:       now,
			StatusChangedAt: now,
		}
		if err := tx.InsertApplication(ctx, a); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return duplicateApplication()
			}
			return internal("create application", err)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"application_id": out.ID,
		"project_id":     projectID,
		"applicant_id":   actor.ID,
	}).Info("application submitted")
	return out, nil
}

// ApproveApplication accepts a PENDING application and assigns its applicant
// to the OPEN project, in one transaction.
func (e *Engine) ApproveApplication(ctx context.Context, actor *models.Actor, applicationID uuid.UUID) (*models.Application, *models.Project, error) {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can approve applications"); err != nil {
		return nil, nil, err
	}

	var (
		app     *models.Application
		project *models.Project
	)
	err := e.inTx(ctx, "approve application", func(tx Tx) error {
		a, p, err := applicationForOwner(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}
		if p.Status != models.ProjectOpen {
			return invalidTransition("project is not open (current status %s)", p.Status)
		}
		if a.Status != models.ApplicationPending {
			return invalidTransition("only pending applications can be approved")
		}

		at := e.stampTime(p)
		p.Status = models.ProjectAssigned
		applicant := a.ApplicantID
		p.AssignedStudentID = &applicant
		p.UpdatedAt = at
		stamp(p, models.ProjectAssigned, at)
		if err := tx.UpdateProject(ctx, p, models.ProjectOpen); err != nil {
			return storeError("assign project", err, "project is no longer open")
		}

		setApplicationStatus(a, models.ApplicationAccepted, at)
		if err := tx.UpdateApplication(ctx, a, models.ApplicationPending); err != nil {
			return storeError("accept application", err, "application is no longer pending")
		}

		if e.policy == AutoReject {
			if err := e.rejectCompeting(ctx, tx, p.ID, a.ID, at); err != nil {
				return err
			}
		}
		app, project = a, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.committed(project, models.ProjectOpen, actor)
	e.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"project_id":     project.ID,
		"student_id":     app.ApplicantID,
	}).Info("application approved")
	return app, project, nil
}

func (e *Engine) rejectCompeting(ctx context.Context, tx Tx, projectID, acceptedID uuid.UUID, at time.Time) error {
	apps, err := tx.ListApplicationsByProject(ctx, projectID)
	if err != nil {
		return internal("list applications", err)
	}
	for i := range apps {
		other := &apps[i]
		if other.ID == acceptedID || other.Status != models.ApplicationPending {
			continue
		}
		setApplicationStatus(other, models.ApplicationRejected, at)
		if err := tx.UpdateApplication(ctx, other, models.ApplicationPending); err != nil {
			return storeError("reject competing application", err, "competing application changed concurrently")
		}
	}
	return nil
}

// RejectApplication rejects a PENDING application. It has no project status
// precondition.
func (e *Engine) RejectApplication(ctx context.Context, actor *models.Actor, applicationID uuid.UUID) (*models.Application, error) {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can reject applications"); err != nil {
		return nil, err
	}

	var out *models.Application
	err := e.inTx(ctx, "reject application", func(tx Tx) error {
		a, _, err := applicationForOwner(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}
		if a.Status != models.ApplicationPending {
			return invalidTransition("only pending applications can be rejected")
		}
		setApplicationStatus(a, models.ApplicationRejected, e.now())
		if err := tx.UpdateApplication(ctx, a, models.ApplicationPending); err != nil {
			return storeError("reject application", err, "application is no longer pending")
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawApplication marks the actor's PENDING application WITHDRAWN so the
// actor may apply again.
func (e *Engine) WithdrawApplication(ctx context.Context, actor *models.Actor, applicationID uuid.UUID) (*models.Application, error) {
	if err := requireCapability(actor, models.CapApply, "only students can withdraw applications"); err != nil {
		return nil, err
	}

	var out *models.Application
	err := e.inTx(ctx, "withdraw application", func(tx Tx) error {
		a, err := ownApplication(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}
		if a.Status != models.ApplicationPending {
			return invalidTransition("only pending applications can be withdrawn")
		}
		a.Status = models.ApplicationWithdrawn
		a.StatusChangedAt = e.now()
		if err := tx.UpdateApplication(ctx, a, models.ApplicationPending); err != nil {
			return storeError("withdraw application", err, "application is no longer pending")
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AcknowledgeApplication records that the applicant has seen the latest
// status change.
func (e *Engine) AcknowledgeApplication(ctx context.Context, actor *models.Actor, applicationID uuid.UUID) (*models.Application, error) {
	if err := requireCapability(actor, models.CapApply, "only students can acknowledge applications"); err != nil {
		return nil, err
	}

	var out *models.Application
	err := e.inTx(ctx, "acknowledge application", func(tx Tx) error {
		a, err := ownApplication(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}
		if a.SeenByApplicant {
			out = a
			return nil
		}
		a.SeenByApplicant = true
		if err := tx.UpdateApplication(ctx, a, a.Status); err != nil {
			return storeError("acknowledge application", err, "application changed concurrently")
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListProjectApplications lists every application to a project the actor owns.
func (e *Engine) ListProjectApplications(ctx context.Context, actor *models.Actor, projectID uuid.UUID) ([]models.Application, error) {
	if err := requireCapability(actor, models.CapPostProjects, "only business owners can review applications"); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, e.store, projectID, actor); err != nil {
		return nil, err
	}
	apps, err := e.store.ListApplicationsByProject(ctx, projectID)
	if err != nil {
		return nil, internal("list applications", err)
	}
	return apps, nil
}

// ListMyApplications lists the actor's own applications.
func (e *Engine) ListMyApplications(ctx context.Context, actor *models.Actor) ([]models.Application, error) {
	if err := requireCapability(actor, models.CapApply, "only students have applications"); err != nil {
		return nil, err
	}
	apps, err := e.store.ListApplicationsByApplicant(ctx, actor.ID)
	if err != nil {
		return nil, internal("list applications", err)
	}
	return apps, nil
}

// setApplicationStatus is used for owner-driven changes, which the applicant
// has not seen yet.
func setApplicationStatus(a *models.Application, s models.ApplicationStatus, at time.Time) {
	a.Status = s
	a.StatusChangedAt = at
	a.SeenByApplicant = false
}
