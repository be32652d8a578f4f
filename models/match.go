package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	// MatchStatusCanceled marks a pre-wired grand finals reset match that
	// the winners-bracket champion made unnecessary.
	MatchStatusCanceled MatchStatus = "canceled"
)

// BracketSegment tags which side of a double elimination bracket a match
// belongs to. Empty for single elimination and round robin.
type BracketSegment string

const (
	SegmentWinners     BracketSegment = "winners"
	SegmentLosers      BracketSegment = "losers"
	SegmentGrandFinals BracketSegment = "grand_finals"
)

// Match is the central entity of the bracket. Forward links are plain row
// references (NextMatchID/WinnerToSlot, LoserNextMatchID/LoserToSlot); the
// progression engine follows them when a result lands.
type Match struct {
	ID           int            `json:"id" db:"id"`
	TournamentID int            `json:"tournament_id" db:"tournament_id"`
	BracketUID   string         `json:"bracket_uid" db:"bracket_uid"`
	Round        int            `json:"round" db:"round"`
	OrderInRound int            `json:"order_in_round" db:"order_in_round"`
	Segment      BracketSegment `json:"segment,omitempty" db:"segment"`

	Team1ID *int `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID *int `json:"team2_id,omitempty" db:"team2_id"`

	Score1   *int        `json:"score1,omitempty" db:"score1"`
	Score2   *int        `json:"score2,omitempty" db:"score2"`
	WinnerID *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status   MatchStatus `json:"status" db:"status"`

	// IsBye marks a match with exactly one expected occupant; it completes
	// automatically as soon as that occupant is known.
	IsBye bool `json:"is_bye" db:"is_bye"`

	NextMatchID  *int `json:"next_match_id,omitempty" db:"next_match_id"`
	WinnerToSlot *int `json:"winner_to_slot,omitempty" db:"winner_to_slot"`

	LoserNextMatchID *int `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	LoserToSlot      *int `json:"loser_to_slot,omitempty" db:"loser_to_slot"`

	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusInProgress, MatchStatusCompleted, MatchStatusCanceled:
		return true
	}
	return false
}

// SlotTeam returns the team occupying the given slot (1 or 2), or nil.
func (m *Match) SlotTeam(slot int) *int {
	if slot == 1 {
		return m.Team1ID
	}
	return m.Team2ID
}

// SetSlotTeam writes a team reference (or nil) into the given slot.
func (m *Match) SetSlotTeam(slot int, teamID *int) {
	if slot == 1 {
		m.Team1ID = teamID
	} else {
		m.Team2ID = teamID
	}
}

// LoserID returns the occupied slot that is not the winner, or nil when no
// winner is set or the match is a bye.
func (m *Match) LoserID() *int {
	if m.WinnerID == nil {
		return nil
	}
	if m.Team1ID != nil && *m.Team1ID != *m.WinnerID {
		return m.Team1ID
	}
	if m.Team2ID != nil && *m.Team2ID != *m.WinnerID {
		return m.Team2ID
	}
	return nil
}

// HasTeam reports whether teamID occupies either slot.
func (m *Match) HasTeam(teamID int) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) ||
		(m.Team2ID != nil && *m.Team2ID == teamID)
}
