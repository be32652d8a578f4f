package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arenadraw/bracket-engine/brackets"
	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
)

type SubmitResultInput struct {
	WinnerID int
	Score1   *int
	Score2   *int
}

type MatchService interface {
	// SubmitResult records a winner on a match and propagates the outcome
	// through the bracket. Resubmission corrects the result and every
	// downstream match that depended on it.
	SubmitResult(ctx context.Context, matchID int, input SubmitResultInput) (*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) SubmitResult(ctx context.Context, matchID int, input SubmitResultInput) (*models.Match, error) {
	if input.WinnerID <= 0 {
		return nil, fmt.Errorf("%w: winner id is required", ErrValidationFailed)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	updated, changed, err := s.submitOnce(ctx, match.TournamentID, matchID, input)
	if errors.Is(err, ErrPropagationFailed) {
		// Propagation is idempotent, so one automatic retry is safe and
		// covers transient storage failures.
		s.logger.Warn("retrying result submission after propagation failure",
			slog.Int("match_id", matchID), slog.Any("error", err))
		updated, changed, err = s.submitOnce(ctx, match.TournamentID, matchID, input)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("winner_id", input.WinnerID),
		slog.Int("matches_updated", len(changed)))

	s.hub.BroadcastToRoom(roomID(match.TournamentID), brackets.Event{
		Type: brackets.EventMatchUpdated,
		Payload: map[string]interface{}{
			"tournament_id": match.TournamentID,
			"match":         updated,
			"changed":       dereferenceMatches(changed),
		},
	})
	return updated, nil
}

// submitOnce runs one submission attempt under a single transaction. The
// tournament row is locked first, serializing all bracket mutation for the
// tournament: two concurrent submissions can never interleave their
// propagation writes.
func (s *matchService) submitOnce(ctx context.Context, tournamentID, matchID int, input SubmitResultInput) (*models.Match, []*models.Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed after result submission error",
					slog.Int("match_id", matchID), slog.Any("error", rbErr))
			}
		}
	}()

	tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
	if txErr != nil {
		if errors.Is(txErr, repositories.ErrTournamentNotFound) {
			txErr = ErrTournamentNotFound
		}
		return nil, nil, txErr
	}
	if !tournament.Locked {
		txErr = ErrTournamentNotLocked
		return nil, nil, txErr
	}

	all, txErr := s.matchRepo.ListByTournament(ctx, tx, tournamentID, nil, nil)
	if txErr != nil {
		return nil, nil, txErr
	}

	arena := brackets.NewArena(all)
	if txErr = arena.SubmitResult(matchID, brackets.Result{
		WinnerID: input.WinnerID,
		Score1:   input.Score1,
		Score2:   input.Score2,
	}, time.Now()); txErr != nil {
		txErr = mapArenaError(txErr)
		return nil, nil, txErr
	}

	changed := arena.Changed()
	for _, m := range changed {
		if txErr = s.matchRepo.UpdateState(ctx, tx, m); txErr != nil {
			txErr = fmt.Errorf("%w: persisting match %d: %v", ErrPropagationFailed, m.ID, txErr)
			return nil, nil, txErr
		}
	}

	if txErr = tx.Commit(); txErr != nil {
		txErr = fmt.Errorf("%w: commit: %v", ErrPropagationFailed, txErr)
		return nil, nil, txErr
	}
	return arena.Match(matchID), changed, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, round, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func mapArenaError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrUnknownMatch):
		return fmt.Errorf("%w: %v", ErrMatchNotFound, err)
	case errors.Is(err, brackets.ErrInvalidWinner):
		return fmt.Errorf("%w: %v", ErrInvalidWinner, err)
	case errors.Is(err, brackets.ErrMatchNotReady):
		return fmt.Errorf("%w: %v", ErrMatchNotReady, err)
	case errors.Is(err, brackets.ErrBrokenLink):
		return fmt.Errorf("%w: %v", ErrPropagationFailed, err)
	}
	return err
}
