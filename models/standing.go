package models

// Standing is a computed ranking row. It is produced fresh on every query
// and never persisted.
type Standing struct {
	Rank   int   `json:"rank"`
	TeamID int   `json:"team_id"`
	Team   *Team `json:"team,omitempty"`

	// Medal model (head-to-head tournaments).
	Gold        int `json:"gold,omitempty"`
	Silver      int `json:"silver,omitempty"`
	Bronze      int `json:"bronze,omitempty"`
	TotalMedals int `json:"total_medals,omitempty"`

	// Points model (placement tournaments).
	TotalPoints int `json:"total_points,omitempty"`
}
