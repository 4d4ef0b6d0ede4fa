package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the single current lifecycle state of a project.
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "DRAFT"
	ProjectOpen       ProjectStatus = "OPEN"
	ProjectAssigned   ProjectStatus = "ASSIGNED"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectInReview   ProjectStatus = "IN_REVIEW"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
	ProjectArchived   ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectOpen, ProjectAssigned, ProjectInProgress,
		ProjectInReview, ProjectCompleted, ProjectCancelled, ProjectArchived:
		return true
	}
	return false
}

// HasAssignee reports whether a project in this status must carry an
// assigned student.
func (s ProjectStatus) HasAssignee() bool {
	switch s {
	case ProjectAssigned, ProjectInProgress, ProjectInReview, ProjectCompleted:
		return true
	}
	return false
}

// Project is a unit of work posted by a business owner.
// AssignedStudentID is set iff the status is one of ASSIGNED, IN_PROGRESS,
// IN_REVIEW or COMPLETED. Lifecycle timestamps are written once, by the
// transition that owns them.
type Project struct {
	ID                  uuid.UUID     `json:"id" db:"id"`
	BusinessOwnerID     uuid.UUID     `json:"business_owner_id" db:"business_owner_id"`
	Status              ProjectStatus `json:"status" db:"status"`
	AssignedStudentID   *uuid.UUID    `json:"assigned_student_id,omitempty" db:"assigned_student_id"`
	Title               string        `json:"title" db:"title"`
	Description         string        `json:"description" db:"description"`
	Skills              []string      `json:"skills" db:"skills"`
	Scope               Scope         `json:"scope" db:"scope"`
	ApplicationDeadline time.Time     `json:"application_deadline" db:"application_deadline"`
	StartDate           time.Time     `json:"start_date" db:"start_date"`
	EstimatedEndDate    time.Time     `json:"estimated_end_date" db:"estimated_end_date"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
	AssignedAt          *time.Time    `json:"assigned_at,omitempty" db:"assigned_at"`
	InProgressAt        *time.Time    `json:"in_progress_at,omitempty" db:"in_progress_at"`
	InReviewAt          *time.Time    `json:"in_review_at,omitempty" db:"in_review_at"`
	CompletedAt         *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// IsOwnedBy reports whether accountID posted the project.
func (p *Project) IsOwnedBy(accountID uuid.UUID) bool {
	return p.BusinessOwnerID == accountID
}

// IsAssignedTo reports whether accountID is the student executing the project.
func (p *Project) IsAssignedTo(accountID uuid.UUID) bool {
	return p.AssignedStudentID != nil && *p.AssignedStudentID == accountID
}

// ProjectFields are the owner-editable fields of a project.
type ProjectFields struct {
	Title               string    `json:"title" binding:"required,max=255"`
	Description         string    `json:"description" binding:"required"`
	Skills              []string  `json:"skills" binding:"required,min=1"`
	Scope               Scope     `json:"scope" binding:"required"`
	ApplicationDeadline time.Time `json:"application_deadline" binding:"required"`
	StartDate           time.Time `json:"start_date" binding:"required"`
	EstimatedEndDate    time.Time `json:"estimated_end_date" binding:"required"`
}

// Apply copies the editable fields onto p.
func (f ProjectFields) Apply(p *Project) {
	p.Title = f.Title
	p.Description = f.Description
	p.Skills = append([]string(nil), f.Skills...)
	p.Scope = f.Scope
	p.ApplicationDeadline = f.ApplicationDeadline
	p.StartDate = f.StartDate
	p.EstimatedEndDate = f.EstimatedEndDate
}

// CreateProjectRequest is the payload for posting a new project.
type CreateProjectRequest struct {
	ProjectFields
	Draft bool `json:"draft"`
}

// AdvanceStatusRequest asks for the next lifecycle status.
type AdvanceStatusRequest struct {
	Status ProjectStatus `json:"status" binding:"required"`
}

// ProjectFilter narrows project listings. Zero values mean "any".
type ProjectFilter struct {
	Status  ProjectStatus `form:"status"`
	OwnerID *uuid.UUID    `form:"-"`
	Limit   int           `form:"limit"`
	Offset  int           `form:"offset"`
}

// ProjectsResponse is the standard response format for project listings.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
	HasMore  bool      `json:"has_more"`
}
