package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

const projectColumns = `id, business_owner_id, status, assigned_student_id, title, description,
	skills, scope, application_deadline, start_date, estimated_end_date,
	created_at, updated_at, assigned_at, in_progress_at, in_review_at, completed_at`

func (q *queries) InsertProject(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := q.q.Exec(ctx, query,
		p.ID, p.BusinessOwnerID, p.Status, p.AssignedStudentID, p.Title, p.Description,
		p.Skills, p.Scope, p.ApplicationDeadline, p.StartDate, p.EstimatedEndDate,
		p.CreatedAt, p.UpdatedAt, p.AssignedAt, p.InProgressAt, p.InReviewAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", translate(err))
	}
	return nil
}

func (q *queries) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(q.q.QueryRow(ctx, query, id))
	if err != nil {
		err = translate(err)
		if errors.Is(err, lifecycle.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// UpdateProject writes every mutable column of p, provided the stored status
// still equals expected.
func (q *queries) UpdateProject(ctx context.Context, p *models.Project, expected models.ProjectStatus) error {
	query := `
		UPDATE projects SET
			status = $3, assigned_student_id = $4, title = $5, description = $6,
			skills = $7, scope = $8, application_deadline = $9, start_date = $10,
			estimated_end_date = $11, updated_at = $12, assigned_at = $13,
			in_progress_at = $14, in_review_at = $15, completed_at = $16
		WHERE id = $1 AND status = $2
	`

	result, err := q.q.Exec(ctx, query,
		p.ID, expected, p.Status, p.AssignedStudentID, p.Title, p.Description,
		p.Skills, p.Scope, p.ApplicationDeadline, p.StartDate,
		p.EstimatedEndDate, p.UpdatedAt, p.AssignedAt,
		p.InProgressAt, p.InReviewAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", translate(err))
	}
	if result.RowsAffected() == 0 {
		return lifecycle.ErrStaleStatus
	}
	return nil
}

func (q *queries) DeleteProject(ctx context.Context, id uuid.UUID, expected models.ProjectStatus) error {
	result, err := q.q.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND status = $2`, id, expected)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return lifecycle.ErrStaleStatus
	}
	return nil
}

// ListProjects returns projects matching filter, newest first, with the total
// match count. Uses COUNT(*) OVER() to get the total in a single query.
func (q *queries) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int64, error) {
	start := time.Now()
	defer timed("ListProjects", start, logrus.Fields{"status": filter.Status})

	qb := NewQueryBuilder()
	if filter.Status != "" {
		qb.Where(columnStatus, filter.Status)
	}
	if filter.OwnerID != nil {
		qb.Where(columnBusinessOwnerID, *filter.OwnerID)
	}
	qb.Paginate(filter.Limit, filter.Offset)

	// Only constant column names reach the SQL text; values are parameters.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM projects
		%s
		ORDER BY %s DESC, id
		%s
	`, projectColumns, qb.WhereClause(), columnCreatedAt, qb.PageClause())

	rows, err := q.q.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	var total int64
	for rows.Next() {
		project, err := scanProject(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, total, nil
}

// scanProject reads the projectColumns, followed by any extra destinations.
func scanProject(row rowScanner, extra ...any) (*models.Project, error) {
	var p models.Project
	dest := []any{
		&p.ID, &p.BusinessOwnerID, &p.Status, &p.AssignedStudentID, &p.Title, &p.Description,
		&p.Skills, &p.Scope, &p.ApplicationDeadline, &p.StartDate, &p.EstimatedEndDate,
		&p.CreatedAt, &p.UpdatedAt, &p.AssignedAt, &p.InProgressAt, &p.InReviewAt, &p.CompletedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}
