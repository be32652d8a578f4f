package models

import "time"

// Event is a scoring subdivision of a tournament (a discipline, a final).
// Medal and point awards attach to events; standings aggregate them across
// the whole tournament.
type Event struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
