package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenadraw/bracket-engine/brackets"
	"github.com/arenadraw/bracket-engine/models"
)

func newBracketFixture(locked bool, bracketType models.BracketType) BracketService {
	tournaments := &fakeTournamentRepo{tournament: &models.Tournament{
		ID:       1,
		Name:     "Autumn Open",
		Category: models.CategoryHeadToHead,
		FormatID: 1,
		Locked:   locked,
	}}
	formats := &fakeFormatRepo{format: &models.Format{ID: 1, Name: "Knockout", BracketType: bracketType}}
	logger := testLogger()
	return NewBracketService(nil, tournaments, formats, nil, brackets.NewHub(logger), logger)
}

func TestGenerateBracketRosterValidation(t *testing.T) {
	svc := newBracketFixture(false, models.BracketSingleElimination)

	tests := []struct {
		name    string
		teamIDs []int
		wantErr error
	}{
		{name: "too few teams", teamIDs: []int{10}, wantErr: ErrNotEnoughTeams},
		{name: "duplicate team", teamIDs: []int{10, 20, 10}, wantErr: ErrDuplicateTeam},
		{name: "non-positive id", teamIDs: []int{10, 0}, wantErr: ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateBracket(context.Background(), 1, GenerateBracketInput{TeamIDs: tt.teamIDs})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateBracketRejectsLockedTournament(t *testing.T) {
	svc := newBracketFixture(true, models.BracketSingleElimination)

	_, err := svc.GenerateBracket(context.Background(), 1, GenerateBracketInput{TeamIDs: []int{10, 20}})
	require.ErrorIs(t, err, ErrTournamentLocked)
}

func TestGenerateBracketUnknownTournament(t *testing.T) {
	svc := newBracketFixture(false, models.BracketSingleElimination)

	_, err := svc.GenerateBracket(context.Background(), 99, GenerateBracketInput{TeamIDs: []int{10, 20}})
	require.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGenerateBracketUnsupportedType(t *testing.T) {
	svc := newBracketFixture(false, models.BracketType("Swiss"))

	_, err := svc.GenerateBracket(context.Background(), 1, GenerateBracketInput{TeamIDs: []int{10, 20}})
	require.ErrorIs(t, err, ErrUnsupportedBracketType)
}

func TestGenerateBracketMapsExhaustedDraw(t *testing.T) {
	svc := newBracketFixture(false, models.BracketSingleElimination)
	seed := int64(3)

	_, err := svc.GenerateBracket(context.Background(), 1, GenerateBracketInput{
		TeamIDs:     []int{10, 20, 30, 40},
		Randomize:   true,
		Seed:        &seed,
		MaxAttempts: 3,
		Constraint:  func(pairs [][2]int) bool { return false },
	})
	require.ErrorIs(t, err, ErrGenerationExhausted)
}

func TestLockBracketIsOneWay(t *testing.T) {
	svc := newBracketFixture(false, models.BracketSingleElimination)

	require.NoError(t, svc.LockBracket(context.Background(), 1))
	err := svc.LockBracket(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTournamentAlreadyLocked)
}

func TestLockBracketUnknownTournament(t *testing.T) {
	svc := newBracketFixture(false, models.BracketSingleElimination)
	err := svc.LockBracket(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
