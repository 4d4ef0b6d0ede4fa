package database

import (
	"context"
	"testing"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveActor(t *testing.T) {
	db := RequireTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	account, err := db.CreateAccount(ctx, "auth0|student-1", models.RoleUser)
	require.NoError(t, err)

	actor, err := db.ResolveActor(ctx, "auth0|student-1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, actor.ID)
	assert.Equal(t, models.RoleUser, actor.Role)

	_, err = db.ResolveActor(ctx, "auth0|nobody")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestCreateAccount_DuplicateExternalID(t *testing.T) {
	db := RequireTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	_, err := db.CreateAccount(ctx, "auth0|dup", models.RoleUser)
	require.NoError(t, err)

	_, err = db.CreateAccount(ctx, "auth0|dup", models.RoleAdmin)
	assert.ErrorIs(t, err, lifecycle.ErrDuplicate)
}

func TestCheckProfile(t *testing.T) {
	db := RequireTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	student := createTestAccount(t, db, models.RoleUser)

	check, err := db.CheckProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.False(t, check.OK)
	assert.Equal(t, []string{"FirstName", "LastName", "Bio", "Intro", "Skills", "Education"}, check.Missing)

	require.NoError(t, db.SaveProfile(ctx, models.Profile{
		AccountID: student.ID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Bio:       "Mathematician",
		Skills:    []string{"analysis", "go"},
		Education: []string{"University of London"},
	}))

	check, err = db.CheckProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro"}, check.Missing)

	profile, err := db.GetProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"analysis", "go"}, profile.Skills)

	require.NoError(t, db.SaveProfile(ctx, models.Profile{
		AccountID: student.ID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Bio:       "Mathematician",
		Intro:     "Hi",
		Skills:    []string{"go"},
		Education: []string{"University of London"},
	}))

	check, err = db.CheckProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, check.OK)
	assert.Empty(t, check.Missing)
}

func TestCheckProfile_UnknownAccount(t *testing.T) {
	db := RequireTestDB(t)
	CleanupTestDB(t, db)

	check, err := db.CheckProfile(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, check.OK)
	assert.Len(t, check.Missing, 6)
}
