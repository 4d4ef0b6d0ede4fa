package models

import (
	"time"

	"github.com/google/uuid"
)

// StatsIncrement is added to a student's statistics when a project completes.
// ProjectID makes the increment safe to replay.
type StatsIncrement struct {
	ProjectID         uuid.UUID `json:"project_id"`
	ProjectsCompleted int       `json:"projects_completed"`
	HoursContributed  int       `json:"hours_contributed"`
}

// Stats are the accumulated statistics of a student.
type Stats struct {
	AccountID         uuid.UUID `json:"account_id" db:"account_id"`
	ProjectsCompleted int       `json:"projects_completed" db:"projects_completed"`
	HoursContributed  int       `json:"hours_contributed" db:"hours_contributed"`
}

// CompletionEvent is emitted after a project commits to COMPLETED.
type CompletionEvent struct {
	ProjectID   uuid.UUID
	AccountID   uuid.UUID
	Scope       Scope
	Hours       int
	CompletedAt time.Time
}
