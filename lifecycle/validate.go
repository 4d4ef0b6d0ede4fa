package lifecycle

import (
	"strings"

	"projecthub/models"
)

// validateFields checks the required project fields and the date ordering
// applicationDeadline <= startDate < estimatedEndDate.
func validateFields(f models.ProjectFields) error {
	fields := map[string]string{}

	if strings.TrimSpace(f.Title) == "" {
		fields["title"] = "title is required"
	} else if len(f.Title) > 255 {
		fields["title"] = "title must be at most 255 characters"
	}
	if strings.TrimSpace(f.Description) == "" {
		fields["description"] = "description is required"
	}
	if len(f.Skills) == 0 {
		fields["skills"] = "at least one skill is required"
	}
	for _, skill := range f.Skills {
		if strings.TrimSpace(skill) == "" {
			fields["skills"] = "skills must not be blank"
			break
		}
	}
	if !f.Scope.Valid() {
		fields["scope"] = "scope must be BEGINNER, INTERMEDIATE, ADVANCED or EXPERT"
	}

	switch {
	case f.ApplicationDeadline.IsZero():
		fields["application_deadline"] = "application deadline is required"
	case f.StartDate.IsZero():
		fields["start_date"] = "start date is required"
	case f.EstimatedEndDate.IsZero():
		fields["estimated_end_date"] = "estimated end date is required"
	case f.ApplicationDeadline.After(f.StartDate):
		fields["application_deadline"] = "application deadline must not be after the start date"
	case !f.StartDate.Before(f.EstimatedEndDate):
		fields["estimated_end_date"] = "estimated end date must be after the start date"
	}

	if len(fields) > 0 {
		return invalid(fields)
	}
	return nil
}
