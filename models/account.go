package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser          Role = "USER"
	RoleBusinessOwner Role = "BUSINESS_OWNER"
	RoleAdmin         Role = "ADMIN"
)

// Capability is something a role is allowed to do regardless of ownership.
type Capability int

const (
	CapPostProjects Capability = iota
	CapApply
	CapReadAnyProject
)

var roleCapabilities = map[Role][]Capability{
	RoleBusinessOwner: {CapPostProjects},
	RoleUser:          {CapApply},
	RoleAdmin:         {CapReadAnyProject},
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Actor is the resolved identity of the caller of an operation.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// Account is the internal record an external identity maps to.
type Account struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Actor returns the identity used by the lifecycle engine.
func (a *Account) Actor() *Actor {
	return &Actor{ID: a.ID, Role: a.Role}
}

// Profile is the subset of a student's profile the completeness check reads.
type Profile struct {
	AccountID uuid.UUID
	FirstName string
	LastName  string
	Bio       string
	Intro     string
	Skills    []string
	Education []string
}

// Check reports which fields required for applying are missing.
func (p *Profile) Check() ProfileCheck {
	var missing []string
	if p == nil {
		p = &Profile{}
	}
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "FirstName")
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, "LastName")
	}
	if strings.TrimSpace(p.Bio) == "" {
		missing = append(missing, "Bio")
	}
	if strings.TrimSpace(p.Intro) == "" {
		missing = append(missing, "Intro")
	}
	if len(p.Skills) == 0 {
		missing = append(missing, "Skills")
	}
	if len(p.Education) == 0 {
		missing = append(missing, "Education")
	}
	return ProfileCheck{OK: len(missing) == 0, Missing: missing}
}

// ProfileCheck is the outcome of a completeness check. Missing lists field
// names in a stable order.
type ProfileCheck struct {
	OK      bool     `json:"ok"`
	Missing []string `json:"missing,omitempty"`
}
