package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/storage"
)

type tournamentFixture struct {
	service TournamentService
	matches *fakeMatchRepo
}

func newTournamentFixture() *tournamentFixture {
	tournaments := &fakeTournamentRepo{tournament: &models.Tournament{
		ID:       1,
		Name:     "Autumn Open",
		Category: models.CategoryHeadToHead,
		FormatID: 1,
	}}
	formats := &fakeFormatRepo{format: &models.Format{ID: 1, Name: "Knockout", BracketType: models.BracketSingleElimination}}
	matches := &fakeMatchRepo{}
	events := &fakeEventRepo{}
	teams := &fakeTeamRepo{teams: map[int]*models.Team{
		10: {ID: 10, Name: "Falcons"},
		20: {ID: 20, Name: "Harriers"},
	}}
	service := NewTournamentService(tournaments, formats, matches, events, teams, storage.NewDisabledUploader(), testLogger())
	return &tournamentFixture{service: service, matches: matches}
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture()

	_, err := f.service.CreateTournament(context.Background(), CreateTournamentInput{
		Name: "  ", Category: models.CategoryHeadToHead, FormatID: 1,
	})
	require.ErrorIs(t, err, ErrTournamentNameRequired)

	_, err = f.service.CreateTournament(context.Background(), CreateTournamentInput{
		Name: "Winter Cup", Category: "mixed", FormatID: 1,
	})
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.service.CreateTournament(context.Background(), CreateTournamentInput{
		Name: "Winter Cup", Category: models.CategoryHeadToHead, FormatID: 99,
	})
	require.ErrorIs(t, err, ErrFormatNotFound)
}

func TestCreateTournamentStartsUnlocked(t *testing.T) {
	f := newTournamentFixture()

	tournament, err := f.service.CreateTournament(context.Background(), CreateTournamentInput{
		Name: "Winter Cup", Category: models.CategoryPlacement, FormatID: 1,
	})
	require.NoError(t, err)
	assert.False(t, tournament.Locked)
	require.NotNil(t, tournament.Format)
	assert.Equal(t, models.BracketSingleElimination, tournament.Format.BracketType)
}

func TestGetTournamentCollectsSeatedTeams(t *testing.T) {
	f := newTournamentFixture()
	f.matches.matches = []*models.Match{
		{ID: 1, TournamentID: 1, Round: 1, Team1ID: intPtr(10), Team2ID: intPtr(20), Status: models.MatchStatusInProgress},
		{ID: 2, TournamentID: 1, Round: 2, Team1ID: intPtr(10), Status: models.MatchStatusPending},
	}

	tournament, err := f.service.GetTournament(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tournament.Matches, 2)
	// Each seated team appears once however many matches it is in.
	require.Len(t, tournament.Teams, 2)
	assert.Equal(t, "Falcons", tournament.Teams[0].Name)
}

func TestCreateEventRequiresName(t *testing.T) {
	f := newTournamentFixture()

	_, err := f.service.CreateEvent(context.Background(), 1, "   ")
	require.ErrorIs(t, err, ErrValidationFailed)

	event, err := f.service.CreateEvent(context.Background(), 1, "Finals")
	require.NoError(t, err)
	assert.Equal(t, 1, event.TournamentID)
	assert.Equal(t, "Finals", event.Name)
}

func TestCreateEventUnknownTournament(t *testing.T) {
	f := newTournamentFixture()

	_, err := f.service.CreateEvent(context.Background(), 99, "Finals")
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
