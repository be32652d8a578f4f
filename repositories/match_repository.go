package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/arenadraw/bracket-engine/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match references an unknown tournament")
	ErrMatchTeamInvalid       = errors.New("match references an unknown team")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	// UpdateAdvanceLinks wires the forward links after bulk creation has
	// assigned database IDs.
	UpdateAdvanceLinks(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID, winnerToSlot, loserNextMatchID, loserToSlot *int) error
	// UpdateState persists every field the progression engine mutates.
	UpdateState(ctx context.Context, exec SQLExecutor, match *models.Match) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, bracket_uid, round, order_in_round, segment,
		team1_id, team2_id, score1, score2, winner_id, status, is_bye,
		next_match_id, winner_to_slot, loser_next_match_id, loser_to_slot,
		completed_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, bracket_uid, round, order_in_round, segment,
			 team1_id, team2_id, score1, score2, winner_id, status, is_bye,
			 next_match_id, winner_to_slot, loser_next_match_id, loser_to_slot, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TournamentID,
		match.BracketUID,
		match.Round,
		match.OrderInRound,
		nullableSegment(match.Segment),
		match.Team1ID,
		match.Team2ID,
		match.Score1,
		match.Score2,
		match.WinnerID,
		match.Status,
		match.IsBye,
		match.NextMatchID,
		match.WinnerToSlot,
		match.LoserNextMatchID,
		match.LoserToSlot,
		match.CompletedAt,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	var segment sql.NullString
	err := scanner.Scan(
		&match.ID,
		&match.TournamentID,
		&match.BracketUID,
		&match.Round,
		&match.OrderInRound,
		&segment,
		&match.Team1ID,
		&match.Team2ID,
		&match.Score1,
		&match.Score2,
		&match.WinnerID,
		&match.Status,
		&match.IsBye,
		&match.NextMatchID,
		&match.WinnerToSlot,
		&match.LoserNextMatchID,
		&match.LoserToSlot,
		&match.CompletedAt,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if segment.Valid {
		match.Segment = models.BracketSegment(segment.String)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *roundFilter)
		placeholder++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY segment NULLS FIRST, round ASC, order_in_round ASC, id ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateAdvanceLinks(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID, winnerToSlot, loserNextMatchID, loserToSlot *int) error {
	query := `
		UPDATE matches
		SET next_match_id = $1, winner_to_slot = $2, loser_next_match_id = $3, loser_to_slot = $4
		WHERE id = $5`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, nextMatchID, winnerToSlot, loserNextMatchID, loserToSlot, matchID)
	if err != nil {
		return fmt.Errorf("failed to update advance links for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateState(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET team1_id = $1, team2_id = $2, score1 = $3, score2 = $4,
		    winner_id = $5, status = $6, completed_at = $7
		WHERE id = $8`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		match.Team1ID,
		match.Team2ID,
		match.Score1,
		match.Score2,
		match.WinnerID,
		match.Status,
		match.CompletedAt,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	// Forward links are self-referencing; drop them first so the delete
	// order cannot trip the foreign keys.
	clear := `
		UPDATE matches
		SET next_match_id = NULL, loser_next_match_id = NULL
		WHERE tournament_id = $1`
	if _, err := r.getExecutor(exec).ExecContext(ctx, clear, tournamentID); err != nil {
		return fmt.Errorf("failed to clear match links for tournament %d: %w", tournamentID, err)
	}
	query := `DELETE FROM matches WHERE tournament_id = $1`
	if _, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}

func nullableSegment(segment models.BracketSegment) interface{} {
	if segment == "" {
		return nil
	}
	return string(segment)
}
