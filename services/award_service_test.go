package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenadraw/bracket-engine/brackets"
	"github.com/arenadraw/bracket-engine/models"
)

type awardFixture struct {
	service AwardService
	medals  *fakeMedalRepo
	points  *fakePointRepo
}

func newAwardFixture(category models.TournamentCategory) *awardFixture {
	tournaments := &fakeTournamentRepo{tournament: &models.Tournament{ID: 1, Name: "Autumn Open", Category: category}}
	events := &fakeEventRepo{event: &models.Event{ID: 1, TournamentID: 1, Name: "Finals"}}
	medals := &fakeMedalRepo{}
	points := &fakePointRepo{}
	logger := testLogger()
	service := NewAwardService(nil, events, tournaments, medals, points, brackets.NewHub(logger), logger, false)
	return &awardFixture{service: service, medals: medals, points: points}
}

func TestAssignMedalsReplacesAssignment(t *testing.T) {
	f := newAwardFixture(models.CategoryHeadToHead)

	award, err := f.service.AssignMedals(context.Background(), 1, AssignMedalsInput{
		GoldTeamID:   intPtr(10),
		SilverTeamID: intPtr(20),
	})
	require.NoError(t, err)
	require.NotNil(t, f.medals.saved)
	assert.Equal(t, 10, *award.GoldTeamID)
	assert.Equal(t, 20, *award.SilverTeamID)
	assert.Nil(t, award.BronzeTeamID)

	// Resubmission overwrites rather than appends.
	award, err = f.service.AssignMedals(context.Background(), 1, AssignMedalsInput{
		GoldTeamID: intPtr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, *f.medals.saved.GoldTeamID)
	assert.Nil(t, f.medals.saved.SilverTeamID)
}

func TestAssignMedalsValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   AssignMedalsInput
		wantErr error
	}{
		{
			name:    "no medals at all",
			input:   AssignMedalsInput{},
			wantErr: ErrNoMedalsGiven,
		},
		{
			name:    "same team twice",
			input:   AssignMedalsInput{GoldTeamID: intPtr(10), BronzeTeamID: intPtr(10)},
			wantErr: ErrDuplicateTeam,
		},
		{
			name:    "non-positive team id",
			input:   AssignMedalsInput{GoldTeamID: intPtr(0)},
			wantErr: ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAwardFixture(models.CategoryHeadToHead)
			_, err := f.service.AssignMedals(context.Background(), 1, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, f.medals.saved)
		})
	}
}

func TestAssignMedalsRejectsPlacementTournament(t *testing.T) {
	f := newAwardFixture(models.CategoryPlacement)

	_, err := f.service.AssignMedals(context.Background(), 1, AssignMedalsInput{GoldTeamID: intPtr(10)})
	require.ErrorIs(t, err, ErrCategoryMismatch)
}

func TestAssignMedalsUnknownEvent(t *testing.T) {
	f := newAwardFixture(models.CategoryHeadToHead)

	_, err := f.service.AssignMedals(context.Background(), 42, AssignMedalsInput{GoldTeamID: intPtr(10)})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestAssignPointsValidation(t *testing.T) {
	tests := []struct {
		name       string
		placements []PointPlacementInput
		wantErr    error
	}{
		{
			name:       "empty set",
			placements: nil,
			wantErr:    ErrValidationFailed,
		},
		{
			name:       "placement out of range",
			placements: []PointPlacementInput{{TeamID: 10, Placement: 6}},
			wantErr:    ErrInvalidPlacement,
		},
		{
			name:       "placement zero",
			placements: []PointPlacementInput{{TeamID: 10, Placement: 0}},
			wantErr:    ErrInvalidPlacement,
		},
		{
			name: "duplicate placement",
			placements: []PointPlacementInput{
				{TeamID: 10, Placement: 1},
				{TeamID: 20, Placement: 1},
			},
			wantErr: ErrDuplicatePlacement,
		},
		{
			name: "team placed twice",
			placements: []PointPlacementInput{
				{TeamID: 10, Placement: 1},
				{TeamID: 10, Placement: 2},
			},
			wantErr: ErrDuplicateTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAwardFixture(models.CategoryPlacement)
			_, err := f.service.AssignPoints(context.Background(), 1, tt.placements)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, f.points.saved)
		})
	}
}

func TestAssignPointsRejectsHeadToHeadTournament(t *testing.T) {
	f := newAwardFixture(models.CategoryHeadToHead)

	_, err := f.service.AssignPoints(context.Background(), 1, []PointPlacementInput{{TeamID: 10, Placement: 1}})
	require.ErrorIs(t, err, ErrCategoryMismatch)
}

func TestBuildPointAwardsAppliesFixedTable(t *testing.T) {
	awards, err := buildPointAwards(1, []PointPlacementInput{
		{TeamID: 10, Placement: 1},
		{TeamID: 20, Placement: 3},
		{TeamID: 30, Placement: 5},
	})
	require.NoError(t, err)
	require.Len(t, awards, 3)
	assert.Equal(t, 10, awards[0].Points)
	assert.Equal(t, 6, awards[1].Points)
	assert.Equal(t, 2, awards[2].Points)
}
