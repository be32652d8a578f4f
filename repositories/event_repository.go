package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arenadraw/bracket-engine/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Event, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (tournament_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, event.TournamentID, event.Name).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT id, tournament_id, name, created_at FROM events WHERE id = $1`
	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&event.ID, &event.TournamentID, &event.Name, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Event, error) {
	query := `SELECT id, tournament_id, name, created_at FROM events WHERE tournament_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.TournamentID, &event.Name, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
