package models

// Scope is the size category of a project. It drives the expected duration
// and the compensation hours credited to the student at completion.
type Scope string

const (
	ScopeBeginner     Scope = "BEGINNER"
	ScopeIntermediate Scope = "INTERMEDIATE"
	ScopeAdvanced     Scope = "ADVANCED"
	ScopeExpert       Scope = "EXPERT"
)

type scopeTerms struct {
	hours int
	weeks int
}

var scopeTable = map[Scope]scopeTerms{
	ScopeBeginner:     {hours: 20, weeks: 2},
	ScopeIntermediate: {hours: 40, weeks: 4},
	ScopeAdvanced:     {hours: 80, weeks: 8},
	ScopeExpert:       {hours: 160, weeks: 12},
}

func (s Scope) Valid() bool {
	_, ok := scopeTable[s]
	return ok
}

// HoursForScope returns the compensation hours for a scope, 0 if unknown.
func HoursForScope(s Scope) int {
	return scopeTable[s].hours
}

// WeeksForScope returns the expected duration in weeks, 0 if unknown.
func WeeksForScope(s Scope) int {
	return scopeTable[s].weeks
}
