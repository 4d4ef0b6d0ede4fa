package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleBusinessOwner.Can(CapPostProjects))
	assert.False(t, RoleBusinessOwner.Can(CapApply))
	assert.True(t, RoleUser.Can(CapApply))
	assert.False(t, RoleUser.Can(CapPostProjects))
	assert.True(t, RoleAdmin.Can(CapReadAnyProject))
	assert.False(t, RoleAdmin.Can(CapApply))

	assert.False(t, Role("GUEST").Valid())
	assert.False(t, Role("GUEST").Can(CapApply))
}

func TestProfileCheck(t *testing.T) {
	complete := Profile{
		FirstName: "Ada", LastName: "Lovelace", Bio: "Analyst", Intro: "Hello",
		Skills: []string{"math"}, Education: []string{"Home"},
	}
	assert.Equal(t, ProfileCheck{OK: true}, complete.Check())

	partial := complete
	partial.Bio = "  "
	partial.Education = nil
	assert.Equal(t, ProfileCheck{OK: false, Missing: []string{"Bio", "Education"}}, partial.Check())

	var missing *Profile
	check := missing.Check()
	assert.False(t, check.OK)
	assert.Equal(t, []string{"FirstName", "LastName", "Bio", "Intro", "Skills", "Education"}, check.Missing)
}

func TestProjectParticipants(t *testing.T) {
	owner, student := uuid.New(), uuid.New()
	p := Project{BusinessOwnerID: owner}

	assert.True(t, p.IsOwnedBy(owner))
	assert.False(t, p.IsAssignedTo(student))

	p.AssignedStudentID = &student
	assert.True(t, p.IsAssignedTo(student))
	assert.False(t, p.IsAssignedTo(owner))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, ProjectInReview.HasAssignee())
	assert.False(t, ProjectOpen.HasAssignee())
	assert.False(t, ProjectStatus("DONE").Valid())
	assert.True(t, ApplicationRejected.Active())
	assert.False(t, ApplicationWithdrawn.Active())
}
