package database

import (
	"context"
	"testing"
	"time"

	"projecthub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestAccount(t *testing.T, db *DB, role models.Role) *models.Account {
	t.Helper()
	account, err := db.CreateAccount(context.Background(), "ext-"+uuid.NewString(), role)
	require.NoError(t, err)
	return account
}

// newTestProject builds an OPEN project owned by ownerID. Times are truncated
// to what Postgres stores.
func newTestProject(ownerID uuid.UUID) *models.Project {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Project{
		ID:                  uuid.New(),
		BusinessOwnerID:     ownerID,
		Status:              models.ProjectOpen,
		Title:               "Inventory dashboard",
		Description:         "Build a dashboard for stock levels",
		Skills:              []string{"go", "sql"},
		Scope:               models.ScopeIntermediate,
		ApplicationDeadline: now.Add(24 * time.Hour),
		StartDate:           now.Add(48 * time.Hour),
		EstimatedEndDate:    now.Add(30 * 24 * time.Hour),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func insertTestProject(t *testing.T, db *DB, ownerID uuid.UUID) *models.Project {
	t.Helper()
	p := newTestProject(ownerID)
	require.NoError(t, db.InsertProject(context.Background(), p))
	return p
}

func newTestApplication(projectID, applicantID uuid.UUID) *models.Application {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Application{
		ID:              uuid.New(),
		ProjectID:       projectID,
		ApplicantID:     applicantID,
		Status:          models.ApplicationPending,
		CoverLetter:     "I would like to help",
		SeenByApplicant: true,
		AppliedAt:       now,
		StatusChangedAt: now,
	}
}
