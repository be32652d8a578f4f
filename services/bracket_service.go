package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arenadraw/bracket-engine/brackets"
	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
)

// GenerateBracketInput carries the roster and draw parameters for one
// generation run. Constraint is a code-level hook (e.g. "no two teams from
// the same group in round one") supplied by embedding callers; it is not
// expressible over the HTTP surface.
type GenerateBracketInput struct {
	TeamIDs     []int
	Randomize   bool
	Seed        *int64
	MaxAttempts int
	Constraint  brackets.DrawConstraint
}

type BracketService interface {
	// GenerateBracket builds and persists the full match set for a
	// tournament. Regeneration before lock replaces the previous bracket;
	// after lock it is rejected.
	GenerateBracket(ctx context.Context, tournamentID int, input GenerateBracketInput) ([]*models.Match, error)
	// LockBracket is the one-way gate between shaping and playing.
	LockBracket(ctx context.Context, tournamentID int) error
}

type bracketService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	formatRepo     repositories.FormatRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	formatRepo repositories.FormatRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:             db,
		tournamentRepo: tournamentRepo,
		formatRepo:     formatRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int, input GenerateBracketInput) ([]*models.Match, error) {
	if err := validateRoster(input.TeamIDs); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Locked {
		return nil, ErrTournamentLocked
	}

	format, err := s.formatRepo.GetByID(ctx, tournament.FormatID)
	if err != nil {
		if errors.Is(err, repositories.ErrFormatNotFound) {
			return nil, ErrFormatNotFound
		}
		return nil, err
	}

	generator, err := buildGenerator(format, input)
	if err != nil {
		return nil, err
	}

	params := brackets.GenerateBracketParams{Tournament: tournament, TeamIDs: input.TeamIDs}
	generated, err := generator.GenerateBracket(ctx, params)
	if err != nil {
		if errors.Is(err, brackets.ErrDrawExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrGenerationExhausted, err)
		}
		if errors.Is(err, brackets.ErrNotEnoughTeams) {
			return nil, ErrNotEnoughTeams
		}
		return nil, fmt.Errorf("failed to generate %s bracket for tournament %d: %w", generator.GetName(), tournamentID, err)
	}

	saved, err := s.saveBracket(ctx, tournament, generated)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("bracket_type", string(format.BracketType)),
		slog.Int("teams", len(input.TeamIDs)),
		slog.Int("matches", len(saved)))

	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Event{
		Type:    brackets.EventBracketGenerated,
		Payload: map[string]interface{}{"tournament_id": tournamentID, "matches": dereferenceMatches(saved)},
	})
	return saved, nil
}

// saveBracket persists the generated match set atomically: bulk insert,
// then a second pass wiring the UID references into row-ID forward links.
// A crash mid-generation never leaves a half-built bracket visible.
func (s *bracketService) saveBracket(ctx context.Context, tournament *models.Tournament, generated []*brackets.BracketMatch) ([]*models.Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed after bracket save error",
					slog.Int("tournament_id", tournament.ID), slog.Any("error", rbErr))
			}
		}
	}()

	// Re-check the lock under the row lock: a concurrent LockBracket must
	// not race a regeneration.
	locked, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournament.ID)
	if txErr != nil {
		return nil, txErr
	}
	if locked.Locked {
		txErr = ErrTournamentLocked
		return nil, txErr
	}

	if txErr = s.matchRepo.DeleteByTournament(ctx, tx, tournament.ID); txErr != nil {
		return nil, txErr
	}

	now := time.Now()
	saved := make([]*models.Match, 0, len(generated))
	byUID := make(map[string]*models.Match, len(generated))

	for _, bm := range generated {
		match := &models.Match{
			TournamentID: tournament.ID,
			BracketUID:   bm.UID,
			Round:        bm.Round,
			OrderInRound: bm.OrderInRound,
			Segment:      bm.Segment,
			Team1ID:      bm.Team1ID,
			Team2ID:      bm.Team2ID,
			IsBye:        bm.IsBye,
			Status:       initialStatus(bm),
		}
		if bm.IsBye && bm.WinnerID != nil {
			match.WinnerID = bm.WinnerID
			match.CompletedAt = &now
		}
		if txErr = s.matchRepo.Create(ctx, tx, match); txErr != nil {
			return nil, txErr
		}
		saved = append(saved, match)
		byUID[bm.UID] = match
	}

	type link struct {
		next, slot, loserNext, loserSlot *int
	}
	links := make(map[string]*link)
	get := func(uid string) *link {
		if l, ok := links[uid]; ok {
			return l
		}
		l := &link{}
		links[uid] = l
		return l
	}
	for _, bm := range generated {
		target := byUID[bm.UID]
		if bm.WinnerSource1UID != nil {
			l := get(*bm.WinnerSource1UID)
			l.next, l.slot = &target.ID, intPtr(1)
		}
		if bm.WinnerSource2UID != nil {
			l := get(*bm.WinnerSource2UID)
			l.next, l.slot = &target.ID, intPtr(2)
		}
		if bm.LoserSource1UID != nil {
			l := get(*bm.LoserSource1UID)
			l.loserNext, l.loserSlot = &target.ID, intPtr(1)
		}
		if bm.LoserSource2UID != nil {
			l := get(*bm.LoserSource2UID)
			l.loserNext, l.loserSlot = &target.ID, intPtr(2)
		}
	}
	for uid, l := range links {
		source, ok := byUID[uid]
		if !ok {
			txErr = fmt.Errorf("generated bracket references unknown match UID %q", uid)
			return nil, txErr
		}
		source.NextMatchID, source.WinnerToSlot = l.next, l.slot
		source.LoserNextMatchID, source.LoserToSlot = l.loserNext, l.loserSlot
		if txErr = s.matchRepo.UpdateAdvanceLinks(ctx, tx, source.ID, l.next, l.slot, l.loserNext, l.loserSlot); txErr != nil {
			return nil, txErr
		}
	}

	summary, txErr := bracketSummaryJSON(saved)
	if txErr != nil {
		return nil, txErr
	}
	if txErr = s.tournamentRepo.UpdateBracketJSON(ctx, tx, tournament.ID, summary); txErr != nil {
		return nil, txErr
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit bracket for tournament %d: %w", tournament.ID, txErr)
	}
	return saved, nil
}

func (s *bracketService) LockBracket(ctx context.Context, tournamentID int) error {
	err := s.tournamentRepo.Lock(ctx, tournamentID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentAlreadyLocked):
			return ErrTournamentAlreadyLocked
		}
		return err
	}

	s.logger.Info("tournament locked", slog.Int("tournament_id", tournamentID))
	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Event{
		Type:    brackets.EventBracketLocked,
		Payload: map[string]interface{}{"tournament_id": tournamentID},
	})
	return nil
}

func validateRoster(teamIDs []int) error {
	if len(teamIDs) < 2 {
		return ErrNotEnoughTeams
	}
	seen := make(map[int]bool, len(teamIDs))
	for _, id := range teamIDs {
		if id <= 0 {
			return fmt.Errorf("%w: team id %d", ErrValidationFailed, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: team %d", ErrDuplicateTeam, id)
		}
		seen[id] = true
	}
	return nil
}

func buildGenerator(format *models.Format, input GenerateBracketInput) (brackets.BracketGenerator, error) {
	draw := brackets.DrawOptions{
		Randomize:   input.Randomize,
		Seed:        input.Seed,
		Constraint:  input.Constraint,
		MaxAttempts: input.MaxAttempts,
	}
	switch format.BracketType {
	case models.BracketSingleElimination:
		return &brackets.SingleEliminationGenerator{Draw: draw}, nil
	case models.BracketDoubleElimination:
		settings, err := format.DoubleEliminationSettings()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid settings for format %d: %v", ErrValidationFailed, format.ID, err)
		}
		return &brackets.DoubleEliminationGenerator{Draw: draw, GrandFinalReset: settings.GrandFinalReset}, nil
	case models.BracketRoundRobin:
		return &brackets.RoundRobinGenerator{Draw: draw}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedBracketType, format.BracketType)
}

func initialStatus(bm *brackets.BracketMatch) models.MatchStatus {
	if bm.IsBye && bm.WinnerID != nil {
		return models.MatchStatusCompleted
	}
	if bm.Team1ID != nil && bm.Team2ID != nil {
		return models.MatchStatusInProgress
	}
	return models.MatchStatusPending
}

// bracketSummaryJSON serializes the round/match layout stored on the
// tournament row for display consumers.
func bracketSummaryJSON(matches []*models.Match) (string, error) {
	type matchSummary struct {
		ID           int    `json:"id"`
		UID          string `json:"uid"`
		Round        int    `json:"round"`
		OrderInRound int    `json:"order_in_round"`
		Segment      string `json:"segment,omitempty"`
		IsBye        bool   `json:"is_bye,omitempty"`
		NextMatchID  *int   `json:"next_match_id,omitempty"`
		LoserMatchID *int   `json:"loser_next_match_id,omitempty"`
	}
	summaries := make([]matchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, matchSummary{
			ID:           m.ID,
			UID:          m.BracketUID,
			Round:        m.Round,
			OrderInRound: m.OrderInRound,
			Segment:      string(m.Segment),
			IsBye:        m.IsBye,
			NextMatchID:  m.NextMatchID,
			LoserMatchID: m.LoserNextMatchID,
		})
	}
	data, err := json.Marshal(map[string]interface{}{"matches": summaries})
	if err != nil {
		return "", fmt.Errorf("failed to marshal bracket summary: %w", err)
	}
	return string(data), nil
}

func roomID(tournamentID int) string {
	return fmt.Sprintf("tournament:%d", tournamentID)
}

func intPtr(v int) *int {
	return &v
}
