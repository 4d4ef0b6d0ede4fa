package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeTerms(t *testing.T) {
	tests := []struct {
		scope Scope
		hours int
		weeks int
	}{
		{ScopeBeginner, 20, 2},
		{ScopeIntermediate, 40, 4},
		{ScopeAdvanced, 80, 8},
		{ScopeExpert, 160, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			assert.True(t, tt.scope.Valid())
			assert.Equal(t, tt.hours, HoursForScope(tt.scope))
			assert.Equal(t, tt.weeks, WeeksForScope(tt.scope))
		})
	}
}

func TestScopeUnknown(t *testing.T) {
	assert.False(t, Scope("GIGANTIC").Valid())
	assert.Zero(t, HoursForScope("GIGANTIC"))
	assert.Zero(t, WeeksForScope(""))
}
