package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenadraw/bracket-engine/models"
)

var ErrNotEnoughTeams = errors.New("at least 2 teams are required to generate a bracket")

type node struct {
	teamID    *int
	sourceUID *string
}

type SingleEliminationGenerator struct {
	Draw DrawOptions
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	n := len(params.TeamIDs)
	if n < 2 {
		return nil, ErrNotEnoughTeams
	}

	order, err := drawSeedOrder(params.TeamIDs, g.Draw, eliminationPairs)
	if err != nil {
		return nil, err
	}

	size, rounds := bracketSize(n)
	byRound, err := buildEliminationRounds("R", "", firstRoundSlots(order, size), rounds)
	if err != nil {
		return nil, err
	}

	matches := make([]*BracketMatch, 0, size-1)
	for _, round := range byRound {
		matches = append(matches, round...)
	}
	return matches, nil
}

// buildEliminationRounds lays out a knockout bracket over the padded
// round-one slots. A round-one match with a single occupant becomes a bye
// with the occupant pre-advanced; later rounds reference their feeders by
// UID. Returns the matches grouped by round.
func buildEliminationRounds(uidPrefix string, segment models.BracketSegment, slots []*int, rounds int) ([][]*BracketMatch, error) {
	byRound := make([][]*BracketMatch, 0, rounds)

	cur := make([]node, 0, len(slots)/2)
	first := make([]*BracketMatch, 0, len(slots)/2)
	for i := 0; i < len(slots); i += 2 {
		idx := i/2 + 1
		uid := fmt.Sprintf("%s1M%d", uidPrefix, idx)
		bm := &BracketMatch{UID: uid, Round: 1, OrderInRound: idx, Segment: segment}

		t1, t2 := slots[i], slots[i+1]
		switch {
		case t1 != nil && t2 != nil:
			bm.Team1ID, bm.Team2ID = t1, t2
			cur = append(cur, node{sourceUID: &bm.UID})
		case t1 != nil:
			bm.Team1ID = t1
			bm.IsBye = true
			bm.WinnerID = t1
			cur = append(cur, node{teamID: t1})
		case t2 != nil:
			bm.Team1ID = t2
			bm.IsBye = true
			bm.WinnerID = t2
			cur = append(cur, node{teamID: t2})
		default:
			// The canonical seed placement never pairs two byes.
			return nil, fmt.Errorf("internal: two byes paired in %s round 1 match %d", uidPrefix, idx)
		}
		first = append(first, bm)
	}
	byRound = append(byRound, first)

	for r := 2; r <= rounds; r++ {
		next := make([]node, 0, len(cur)/2)
		roundMatches := make([]*BracketMatch, 0, len(cur)/2)
		for i := 0; i < len(cur); i += 2 {
			idx := i/2 + 1
			uid := fmt.Sprintf("%s%dM%d", uidPrefix, r, idx)
			bm := &BracketMatch{UID: uid, Round: r, OrderInRound: idx, Segment: segment}

			if cur[i].teamID != nil {
				bm.Team1ID = cur[i].teamID
			} else {
				bm.WinnerSource1UID = cur[i].sourceUID
			}
			if cur[i+1].teamID != nil {
				bm.Team2ID = cur[i+1].teamID
			} else {
				bm.WinnerSource2UID = cur[i+1].sourceUID
			}

			next = append(next, node{sourceUID: &bm.UID})
			roundMatches = append(roundMatches, bm)
		}
		byRound = append(byRound, roundMatches)
		cur = next
	}

	return byRound, nil
}
