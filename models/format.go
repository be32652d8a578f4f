package models

import "encoding/json"

// BracketType identifies the generator used for a tournament.
type BracketType string

const (
	BracketSingleElimination BracketType = "SingleElimination"
	BracketDoubleElimination BracketType = "DoubleElimination"
	BracketRoundRobin        BracketType = "RoundRobin"
)

// DoubleEliminationSettings control optional double elimination behavior.
// GrandFinalReset pre-wires a second grand finals match that only activates
// if the losers-bracket champion wins the first one.
type DoubleEliminationSettings struct {
	GrandFinalReset bool `json:"grand_final_reset"`
}

type Format struct {
	ID           int         `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	BracketType  BracketType `json:"bracket_type" db:"bracket_type"`
	SettingsJSON *string     `json:"-" db:"settings_json"`
}

func (b BracketType) Valid() bool {
	switch b {
	case BracketSingleElimination, BracketDoubleElimination, BracketRoundRobin:
		return true
	}
	return false
}

// DoubleEliminationSettings parses SettingsJSON for a double elimination
// format. Missing or empty settings yield the defaults (no reset).
func (f *Format) DoubleEliminationSettings() (*DoubleEliminationSettings, error) {
	settings := &DoubleEliminationSettings{}
	if f.BracketType != BracketDoubleElimination || f.SettingsJSON == nil || *f.SettingsJSON == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(*f.SettingsJSON), settings); err != nil {
		return nil, err
	}
	return settings, nil
}
