package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arenadraw/bracket-engine/models"
)

var ErrFormatNotFound = errors.New("format not found")

type FormatRepository interface {
	Create(ctx context.Context, format *models.Format) error
	GetByID(ctx context.Context, id int) (*models.Format, error)
	List(ctx context.Context) ([]*models.Format, error)
}

type postgresFormatRepository struct {
	db *sql.DB
}

func NewPostgresFormatRepository(db *sql.DB) FormatRepository {
	return &postgresFormatRepository{db: db}
}

func (r *postgresFormatRepository) Create(ctx context.Context, format *models.Format) error {
	query := `
		INSERT INTO formats (name, bracket_type, settings_json)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, format.Name, format.BracketType, format.SettingsJSON).Scan(&format.ID)
	if err != nil {
		return fmt.Errorf("failed to create format: %w", err)
	}
	return nil
}

func (r *postgresFormatRepository) GetByID(ctx context.Context, id int) (*models.Format, error) {
	query := `SELECT id, name, bracket_type, settings_json FROM formats WHERE id = $1`
	format := &models.Format{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&format.ID, &format.Name, &format.BracketType, &format.SettingsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormatNotFound
		}
		return nil, fmt.Errorf("failed to scan format %d: %w", id, err)
	}
	return format, nil
}

func (r *postgresFormatRepository) List(ctx context.Context) ([]*models.Format, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, bracket_type, settings_json FROM formats ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query formats: %w", err)
	}
	defer rows.Close()

	formats := make([]*models.Format, 0)
	for rows.Next() {
		format := &models.Format{}
		if err := rows.Scan(&format.ID, &format.Name, &format.BracketType, &format.SettingsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan format row: %w", err)
		}
		formats = append(formats, format)
	}
	return formats, rows.Err()
}
