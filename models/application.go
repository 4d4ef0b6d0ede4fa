package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Active reports whether the application counts toward the
// one-application-per-applicant-per-project limit.
func (s ApplicationStatus) Active() bool {
	return s != ApplicationWithdrawn
}

// Application is a student's request to be assigned to a project.
type Application struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	ProjectID       uuid.UUID         `json:"project_id" db:"project_id"`
	ApplicantID     uuid.UUID         `json:"applicant_id" db:"applicant_id"`
	Status          ApplicationStatus `json:"status" db:"status"`
	CoverLetter     string            `json:"cover_letter" db:"cover_letter"`
	SeenByApplicant bool              `json:"seen_by_applicant" db:"seen_by_applicant"`
	AppliedAt       time.Time         `json:"applied_at" db:"applied_at"`
	StatusChangedAt time.Time         `json:"status_changed_at" db:"status_changed_at"`
}

// SubmitApplicationRequest is the payload for applying to a project.
type SubmitApplicationRequest struct {
	CoverLetter string `json:"cover_letter" binding:"required"`
}

type ApplicationsResponse struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
}
