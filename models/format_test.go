package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDoubleEliminationSettings(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		wantReset bool
		wantErr   bool
	}{
		{
			name:   "nil settings default",
			format: Format{BracketType: BracketDoubleElimination},
		},
		{
			name:   "empty settings default",
			format: Format{BracketType: BracketDoubleElimination, SettingsJSON: strPtr("")},
		},
		{
			name:      "reset enabled",
			format:    Format{BracketType: BracketDoubleElimination, SettingsJSON: strPtr(`{"grand_final_reset":true}`)},
			wantReset: true,
		},
		{
			name:   "settings ignored for other types",
			format: Format{BracketType: BracketSingleElimination, SettingsJSON: strPtr(`{"grand_final_reset":true}`)},
		},
		{
			name:    "malformed settings",
			format:  Format{BracketType: BracketDoubleElimination, SettingsJSON: strPtr(`{`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := tt.format.DoubleEliminationSettings()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantReset, settings.GrandFinalReset)
		})
	}
}

func TestBracketTypeValid(t *testing.T) {
	assert.True(t, BracketSingleElimination.Valid())
	assert.True(t, BracketDoubleElimination.Valid())
	assert.True(t, BracketRoundRobin.Valid())
	assert.False(t, BracketType("Swiss").Valid())
}

func TestTournamentCategoryValid(t *testing.T) {
	assert.True(t, CategoryHeadToHead.Valid())
	assert.True(t, CategoryPlacement.Valid())
	assert.False(t, TournamentCategory("mixed").Valid())
}
