package database

import (
	"context"
	"errors"
	"fmt"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
)

const applicationColumns = `id, project_id, applicant_id, status, cover_letter,
	seen_by_applicant, applied_at, status_changed_at`

// InsertApplication returns lifecycle.ErrDuplicate when the applicant already
// has a non-withdrawn application for the project.
func (q *queries) InsertApplication(ctx context.Context, a *models.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.q.Exec(ctx, query,
		a.ID, a.ProjectID, a.ApplicantID, a.Status, a.CoverLetter,
		a.SeenByApplicant, a.AppliedAt, a.StatusChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", translate(err))
	}
	return nil
}

func (q *queries) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return q.getApplication(ctx, query, id)
}

func (q *queries) FindActiveApplication(ctx context.Context, projectID, applicantID uuid.UUID) (*models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE project_id = $1 AND applicant_id = $2 AND status <> 'WITHDRAWN'
	`
	return q.getApplication(ctx, query, projectID, applicantID)
}

func (q *queries) getApplication(ctx context.Context, query string, args ...any) (*models.Application, error) {
	app, err := scanApplication(q.q.QueryRow(ctx, query, args...))
	if err != nil {
		err = translate(err)
		if errors.Is(err, lifecycle.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// UpdateApplication writes status, seen flag and status timestamp, provided
// the stored status still equals expected.
func (q *queries) UpdateApplication(ctx context.Context, a *models.Application, expected models.ApplicationStatus) error {
	query := `
		UPDATE applications
		SET status = $3, seen_by_applicant = $4, status_changed_at = $5
		WHERE id = $1 AND status = $2
	`

	result, err := q.q.Exec(ctx, query, a.ID, expected, a.Status, a.SeenByApplicant, a.StatusChangedAt)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", translate(err))
	}
	if result.RowsAffected() == 0 {
		return lifecycle.ErrStaleStatus
	}
	return nil
}

func (q *queries) ListApplicationsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE project_id = $1
		ORDER BY applied_at ASC
	`
	return q.listApplications(ctx, query, projectID)
}

func (q *queries) ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE applicant_id = $1
		ORDER BY applied_at DESC
	`
	return q.listApplications(ctx, query, applicantID)
}

func (q *queries) listApplications(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := q.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.ApplicantID,
		&a.Status,
		&a.CoverLetter,
		&a.SeenByApplicant,
		&a.AppliedAt,
		&a.StatusChangedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanApplications(rows rowsScanner) ([]models.Application, error) {
	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return apps, nil
}
