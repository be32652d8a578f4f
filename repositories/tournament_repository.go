package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arenadraw/bracket-engine/models"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentAlreadyLocked = errors.New("tournament is already locked")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetByIDForUpdate locks the tournament row for the duration of the
	// caller's transaction, serializing bracket mutation per tournament.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// Lock flips the locked flag, failing if it was already set.
	Lock(ctx context.Context, id int) error
	UpdateBracketJSON(ctx context.Context, exec SQLExecutor, id int, bracketJSON string) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, category, format_id, locked, logo_key)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING id, locked, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.Category,
		tournament.FormatID,
		tournament.LogoKey,
	).Scan(&tournament.ID, &tournament.Locked, &tournament.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

const tournamentColumns = `id, name, category, format_id, locked, bracket_json, logo_key, created_at`

func (r *postgresTournamentRepository) scanTournament(row *sql.Row) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Category,
		&t.FormatID,
		&t.Locked,
		&t.BracketJSON,
		&t.LogoKey,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`
	return r.scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) Lock(ctx context.Context, id int) error {
	// Compare-and-swap keeps the transition one-way even under concurrent
	// lock requests.
	query := `UPDATE tournaments SET locked = TRUE WHERE id = $1 AND locked = FALSE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to lock tournament %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check tournament %d: %w", id, err)
		}
		if !exists {
			return ErrTournamentNotFound
		}
		return ErrTournamentAlreadyLocked
	}
	return nil
}

func (r *postgresTournamentRepository) UpdateBracketJSON(ctx context.Context, exec SQLExecutor, id int, bracketJSON string) error {
	query := `UPDATE tournaments SET bracket_json = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, bracketJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update bracket summary for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE tournaments SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update logo key for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
