package models

import "time"

// TournamentCategory selects the scoring model for standings.
type TournamentCategory string

const (
	CategoryHeadToHead TournamentCategory = "head_to_head"
	CategoryPlacement  TournamentCategory = "placement"
)

// Tournament is a single bracket instance. Structural mutation (generation,
// reseeding) is only allowed while Locked is false; locking is one-way.
type Tournament struct {
	ID          int                `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Category    TournamentCategory `json:"category" db:"category"`
	FormatID    int                `json:"format_id" db:"format_id"`
	Locked      bool               `json:"locked" db:"locked"`
	BracketJSON *string            `json:"bracket,omitempty" db:"bracket_json"`
	LogoKey     *string            `json:"-" db:"logo_key"`
	LogoURL     *string            `json:"logo_url,omitempty" db:"-"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`

	// Linked entities, populated by services, not mapped directly.
	Format  *Format `json:"format,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
	Teams   []Team  `json:"teams,omitempty" db:"-"`
}

func (c TournamentCategory) Valid() bool {
	return c == CategoryHeadToHead || c == CategoryPlacement
}
