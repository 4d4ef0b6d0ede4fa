package lifecycle

import (
	"time"

	"projecthub/models"
)

// successors is the forward-only execution path. Each status has at most one
// legal next status.
var successors = map[models.ProjectStatus]models.ProjectStatus{
	models.ProjectAssigned:   models.ProjectInProgress,
	models.ProjectInProgress: models.ProjectInReview,
	models.ProjectInReview:   models.ProjectCompleted,
}

// NextStatus returns the unique successor of from on the execution path.
func NextStatus(from models.ProjectStatus) (models.ProjectStatus, bool) {
	to, ok := successors[from]
	return to, ok
}

// CanAdvance reports whether to is the legal successor of from.
func CanAdvance(from, to models.ProjectStatus) bool {
	next, ok := successors[from]
	return ok && next == to
}

// Editable reports whether the terms of a project may still change.
func Editable(s models.ProjectStatus) bool {
	return s == models.ProjectDraft || s == models.ProjectOpen
}

// Archivable reports whether a project may be withdrawn from listing.
func Archivable(s models.ProjectStatus) bool {
	return s == models.ProjectDraft || s == models.ProjectOpen
}

// Deletable reports whether a project may be physically removed.
func Deletable(s models.ProjectStatus) bool {
	return Editable(s)
}

// mayAdvance reports whether actor is allowed to move p to target. The owner
// may perform every step; the assigned student every step but completion.
func mayAdvance(p *models.Project, actor *models.Actor, target models.ProjectStatus) bool {
	if p.IsOwnedBy(actor.ID) {
		return true
	}
	return p.IsAssignedTo(actor.ID) && target != models.ProjectCompleted
}

// stamp records the lifecycle timestamp owned by the transition into to.
// Timestamps that are already set are never overwritten.
func stamp(p *models.Project, to models.ProjectStatus, at time.Time) {
	var field **time.Time
	switch to {
	case models.ProjectAssigned:
		field = &p.AssignedAt
	case models.ProjectInProgress:
		field = &p.InProgressAt
	case models.ProjectInReview:
		field = &p.InReviewAt
	case models.ProjectCompleted:
		field = &p.CompletedAt
	default:
		return
	}
	if *field == nil {
		t := at
		*field = &t
	}
}

// latestStamp returns the most recent lifecycle timestamp of p.
func latestStamp(p *models.Project) time.Time {
	latest := p.CreatedAt
	for _, ts := range []*time.Time{p.AssignedAt, p.InProgressAt, p.InReviewAt, p.CompletedAt} {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}
