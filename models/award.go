package models

import "time"

// MedalAward holds the medal assignment of one event in a head-to-head
// tournament. At most one live row per event; re-assignment overwrites it.
type MedalAward struct {
	ID           int       `json:"id" db:"id"`
	EventID      int       `json:"event_id" db:"event_id"`
	GoldTeamID   *int      `json:"gold_team_id,omitempty" db:"gold_team_id"`
	SilverTeamID *int      `json:"silver_team_id,omitempty" db:"silver_team_id"`
	BronzeTeamID *int      `json:"bronze_team_id,omitempty" db:"bronze_team_id"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PointAward records one team's placement in an event of a
// placement-scored tournament. Unique per (event, placement); the full set
// for an event is replaced atomically, never patched.
type PointAward struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Placement int       `json:"placement" db:"placement"`
	Points    int       `json:"points" db:"points"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const MaxPlacement = 5

// PlacementPoints is the fixed placement-to-points table.
var PlacementPoints = map[int]int{
	1: 10,
	2: 8,
	3: 6,
	4: 4,
	5: 2,
}
