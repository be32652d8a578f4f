package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	tournament *models.Tournament
}

func (f *fakeTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	tournament.ID = 1
	return nil
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	if f.tournament == nil || f.tournament.ID != id {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *f.tournament
	return &clone, nil
}

func (f *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return f.GetByID(ctx, exec, id)
}

func (f *fakeTournamentRepo) Lock(ctx context.Context, id int) error {
	if f.tournament == nil || f.tournament.ID != id {
		return repositories.ErrTournamentNotFound
	}
	if f.tournament.Locked {
		return repositories.ErrTournamentAlreadyLocked
	}
	f.tournament.Locked = true
	return nil
}

func (f *fakeTournamentRepo) UpdateBracketJSON(ctx context.Context, exec repositories.SQLExecutor, id int, bracketJSON string) error {
	return nil
}

func (f *fakeTournamentRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	return nil
}

type fakeEventRepo struct {
	event *models.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = 1
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, repositories.ErrEventNotFound
	}
	clone := *f.event
	return &clone, nil
}

func (f *fakeEventRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Event, error) {
	if f.event == nil || f.event.TournamentID != tournamentID {
		return nil, nil
	}
	return []*models.Event{f.event}, nil
}

type fakeMedalRepo struct {
	saved   *models.MedalAward
	tallies []*repositories.MedalTally
}

func (f *fakeMedalRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, award *models.MedalAward) error {
	award.ID = 1
	f.saved = award
	return nil
}

func (f *fakeMedalRepo) GetByEvent(ctx context.Context, eventID int) (*models.MedalAward, error) {
	return f.saved, nil
}

func (f *fakeMedalRepo) TallyByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*repositories.MedalTally, error) {
	return f.tallies, nil
}

type fakePointRepo struct {
	saved  []*models.PointAward
	totals []*repositories.PointTotal
}

func (f *fakePointRepo) ReplaceForEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int, awards []*models.PointAward) error {
	f.saved = awards
	return nil
}

func (f *fakePointRepo) ListByEvent(ctx context.Context, eventID int) ([]*models.PointAward, error) {
	return f.saved, nil
}

func (f *fakePointRepo) TotalsByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*repositories.PointTotal, error) {
	return f.totals, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		if team, ok := f.teams[id]; ok {
			out = append(out, team)
		}
	}
	return out, nil
}

type fakeFormatRepo struct {
	format *models.Format
}

func (f *fakeFormatRepo) Create(ctx context.Context, format *models.Format) error {
	format.ID = 1
	return nil
}

func (f *fakeFormatRepo) GetByID(ctx context.Context, id int) (*models.Format, error) {
	if f.format == nil || f.format.ID != id {
		return nil, repositories.ErrFormatNotFound
	}
	clone := *f.format
	return &clone, nil
}

func (f *fakeFormatRepo) List(ctx context.Context) ([]*models.Format, error) {
	if f.format == nil {
		return nil, nil
	}
	return []*models.Format{f.format}, nil
}

type fakeMatchRepo struct {
	matches []*models.Match
	updated []*models.Match
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(f.matches) + 1
	f.matches = append(f.matches, match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0, len(f.matches))
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateAdvanceLinks(ctx context.Context, exec repositories.SQLExecutor, matchID int, nextMatchID, winnerToSlot, loserNextMatchID, loserToSlot *int) error {
	return nil
}

func (f *fakeMatchRepo) UpdateState(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	for i, m := range f.matches {
		if m.ID == match.ID {
			clone := *match
			f.matches[i] = &clone
			f.updated = append(f.updated, &clone)
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	kept := f.matches[:0]
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			kept = append(kept, m)
		}
	}
	f.matches = kept
	return nil
}
