package brackets

import (
	"context"

	"github.com/arenadraw/bracket-engine/models"
)

// BracketMatch is a generated match shell, addressed by UID until it is
// persisted and receives a database ID. Slot feeders are expressed as
// source-match UIDs; the persistence layer turns them into forward links
// (next_match_id / loser_next_match_id) on the feeder rows.
type BracketMatch struct {
	UID          string
	Round        int
	OrderInRound int
	Segment      models.BracketSegment

	Team1ID *int
	Team2ID *int

	// Winner of the referenced match fills the slot.
	WinnerSource1UID *string
	WinnerSource2UID *string

	// Loser of the referenced match fills the slot (double elimination).
	LoserSource1UID *string
	LoserSource2UID *string

	// IsBye marks a match with exactly one expected occupant. When the
	// occupant is already known the generator pre-completes the match and
	// pre-advances the team; otherwise it completes on slot fill.
	IsBye bool

	// Set by the generator for byes whose occupant is known up front.
	WinnerID *int
}

type GenerateBracketParams struct {
	Tournament *models.Tournament
	TeamIDs    []int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}
