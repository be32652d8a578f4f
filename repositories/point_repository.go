package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arenadraw/bracket-engine/models"
)

// PointTotal is the per-team points aggregate across a tournament's events.
type PointTotal struct {
	TeamID int
	Points int
}

type PointRepository interface {
	// ReplaceForEvent swaps the full placement set of an event: delete then
	// insert under the caller's transaction, so duplicate placements can
	// never coexist.
	ReplaceForEvent(ctx context.Context, exec SQLExecutor, eventID int, awards []*models.PointAward) error
	ListByEvent(ctx context.Context, eventID int) ([]*models.PointAward, error)
	TotalsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*PointTotal, error)
}

type postgresPointRepository struct {
	db *sql.DB
}

func NewPostgresPointRepository(db *sql.DB) PointRepository {
	return &postgresPointRepository{db: db}
}

func (r *postgresPointRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPointRepository) ReplaceForEvent(ctx context.Context, exec SQLExecutor, eventID int, awards []*models.PointAward) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM point_awards WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear point awards for event %d: %w", eventID, err)
	}

	query := `
		INSERT INTO point_awards (event_id, team_id, placement, points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	for _, award := range awards {
		err := executor.QueryRowContext(ctx, query,
			award.EventID, award.TeamID, award.Placement, award.Points,
		).Scan(&award.ID, &award.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert point award (event %d, placement %d): %w", eventID, award.Placement, err)
		}
	}
	return nil
}

func (r *postgresPointRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.PointAward, error) {
	query := `
		SELECT id, event_id, team_id, placement, points, created_at
		FROM point_awards WHERE event_id = $1 ORDER BY placement`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query point awards for event %d: %w", eventID, err)
	}
	defer rows.Close()

	awards := make([]*models.PointAward, 0)
	for rows.Next() {
		award := &models.PointAward{}
		if err := rows.Scan(&award.ID, &award.EventID, &award.TeamID, &award.Placement, &award.Points, &award.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point award row: %w", err)
		}
		awards = append(awards, award)
	}
	return awards, rows.Err()
}

func (r *postgresPointRepository) TotalsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*PointTotal, error) {
	query := `
		SELECT pa.team_id, SUM(pa.points) AS points
		FROM point_awards pa
		JOIN events e ON e.id = pa.event_id
		WHERE e.tournament_id = $1
		GROUP BY pa.team_id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to total points for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	totals := make([]*PointTotal, 0)
	for rows.Next() {
		total := &PointTotal{}
		if err := rows.Scan(&total.TeamID, &total.Points); err != nil {
			return nil, fmt.Errorf("failed to scan point total row: %w", err)
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}
