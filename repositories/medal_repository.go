package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arenadraw/bracket-engine/models"
)

// MedalTally is the per-team medal aggregate across a tournament's events.
type MedalTally struct {
	TeamID int
	Gold   int
	Silver int
	Bronze int
}

type MedalRepository interface {
	// Upsert replaces the single live medal assignment of an event.
	Upsert(ctx context.Context, exec SQLExecutor, award *models.MedalAward) error
	GetByEvent(ctx context.Context, eventID int) (*models.MedalAward, error)
	// TallyByTournament counts medal occurrences per team across all of a
	// tournament's events.
	TallyByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*MedalTally, error)
}

type postgresMedalRepository struct {
	db *sql.DB
}

func NewPostgresMedalRepository(db *sql.DB) MedalRepository {
	return &postgresMedalRepository{db: db}
}

func (r *postgresMedalRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMedalRepository) Upsert(ctx context.Context, exec SQLExecutor, award *models.MedalAward) error {
	award.UpdatedAt = time.Now()
	query := `
		INSERT INTO medal_awards (event_id, gold_team_id, silver_team_id, bronze_team_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE
		SET gold_team_id = EXCLUDED.gold_team_id,
		    silver_team_id = EXCLUDED.silver_team_id,
		    bronze_team_id = EXCLUDED.bronze_team_id,
		    updated_at = EXCLUDED.updated_at
		RETURNING id`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		award.EventID,
		award.GoldTeamID,
		award.SilverTeamID,
		award.BronzeTeamID,
		award.UpdatedAt,
	).Scan(&award.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert medal award for event %d: %w", award.EventID, err)
	}
	return nil
}

func (r *postgresMedalRepository) GetByEvent(ctx context.Context, eventID int) (*models.MedalAward, error) {
	query := `
		SELECT id, event_id, gold_team_id, silver_team_id, bronze_team_id, updated_at
		FROM medal_awards WHERE event_id = $1`
	award := &models.MedalAward{}
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&award.ID, &award.EventID, &award.GoldTeamID, &award.SilverTeamID, &award.BronzeTeamID, &award.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan medal award for event %d: %w", eventID, err)
	}
	return award, nil
}

func (r *postgresMedalRepository) TallyByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*MedalTally, error) {
	query := `
		SELECT team_id,
		       COUNT(*) FILTER (WHERE medal = 'gold')   AS gold,
		       COUNT(*) FILTER (WHERE medal = 'silver') AS silver,
		       COUNT(*) FILTER (WHERE medal = 'bronze') AS bronze
		FROM (
			SELECT ma.gold_team_id   AS team_id, 'gold'   AS medal FROM medal_awards ma
				JOIN events e ON e.id = ma.event_id
				WHERE e.tournament_id = $1 AND ma.gold_team_id IS NOT NULL
			UNION ALL
			SELECT ma.silver_team_id AS team_id, 'silver' AS medal FROM medal_awards ma
				JOIN events e ON e.id = ma.event_id
				WHERE e.tournament_id = $1 AND ma.silver_team_id IS NOT NULL
			UNION ALL
			SELECT ma.bronze_team_id AS team_id, 'bronze' AS medal FROM medal_awards ma
				JOIN events e ON e.id = ma.event_id
				WHERE e.tournament_id = $1 AND ma.bronze_team_id IS NOT NULL
		) medals
		GROUP BY team_id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally medals for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	tallies := make([]*MedalTally, 0)
	for rows.Next() {
		tally := &MedalTally{}
		if err := rows.Scan(&tally.TeamID, &tally.Gold, &tally.Silver, &tally.Bronze); err != nil {
			return nil, fmt.Errorf("failed to scan medal tally row: %w", err)
		}
		tallies = append(tallies, tally)
	}
	return tallies, rows.Err()
}
