package brackets

import (
	"context"
	"fmt"

	"github.com/arenadraw/bracket-engine/models"
)

const (
	GrandFinalsUID      = "GFM1"
	GrandFinalsResetUID = "GFM2"
)

type DoubleEliminationGenerator struct {
	Draw DrawOptions
	// GrandFinalReset pre-wires a second grand finals match, activated only
	// if the losers-bracket champion wins the first one.
	GrandFinalReset bool
}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// lbNode tracks a losers-bracket feeder between rounds. A void node stands
// for a winner that can never exist because every path into it was a bye.
type lbNode struct {
	sourceUID *string
	void      bool
}

// GenerateBracket builds a winners bracket shaped like single elimination,
// a losers bracket sized to absorb every drop at the correct round offset,
// and the grand finals. Losers-bracket rounds alternate: odd rounds pair
// losers-bracket survivors, even rounds merge them with drops from the next
// winners round (drop order reversed to delay rematches).
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	n := len(params.TeamIDs)
	if n < 2 {
		return nil, ErrNotEnoughTeams
	}

	order, err := drawSeedOrder(params.TeamIDs, g.Draw, eliminationPairs)
	if err != nil {
		return nil, err
	}

	size, rounds := bracketSize(n)
	winners, err := buildEliminationRounds("WR", models.SegmentWinners, firstRoundSlots(order, size), rounds)
	if err != nil {
		return nil, err
	}

	matches := make([]*BracketMatch, 0, 2*size)
	for _, round := range winners {
		matches = append(matches, round...)
	}
	wbFinalUID := winners[rounds-1][0].UID

	var lbFinalUID string
	if rounds > 1 {
		lbMatches, finalUID, err := buildLosersBracket(winners, size, rounds)
		if err != nil {
			return nil, err
		}
		matches = append(matches, lbMatches...)
		lbFinalUID = finalUID
	}

	gf1 := &BracketMatch{
		UID:              GrandFinalsUID,
		Round:            1,
		OrderInRound:     1,
		Segment:          models.SegmentGrandFinals,
		WinnerSource1UID: &wbFinalUID,
	}
	if rounds == 1 {
		// Two teams: the losers bracket is empty and the loser of the only
		// winners match is the losers-bracket champion.
		gf1.LoserSource2UID = &wbFinalUID
	} else {
		gf1.WinnerSource2UID = &lbFinalUID
	}
	matches = append(matches, gf1)

	if g.GrandFinalReset {
		matches = append(matches, &BracketMatch{
			UID:              GrandFinalsResetUID,
			Round:            2,
			OrderInRound:     1,
			Segment:          models.SegmentGrandFinals,
			WinnerSource1UID: &gf1.UID,
		})
	}

	return matches, nil
}

func buildLosersBracket(winners [][]*BracketMatch, size, rounds int) ([]*BracketMatch, string, error) {
	matches := make([]*BracketMatch, 0, size-2)

	// Round L1: pair the losers of adjacent winners round-one matches.
	// A bye in the winners bracket produces no loser, so its drop is void;
	// a losers match with one void feeder becomes a deferred bye and one
	// with two void feeders collapses entirely.
	w1 := winners[0]
	prev := make([]lbNode, size/4)
	for j := range prev {
		f1, f2 := w1[2*j], w1[2*j+1]
		uid := fmt.Sprintf("LR1M%d", j+1)
		bm := &BracketMatch{UID: uid, Round: 1, OrderInRound: j + 1, Segment: models.SegmentLosers}
		switch {
		case !f1.IsBye && !f2.IsBye:
			bm.LoserSource1UID = &f1.UID
			bm.LoserSource2UID = &f2.UID
		case !f1.IsBye:
			bm.IsBye = true
			bm.LoserSource1UID = &f1.UID
		case !f2.IsBye:
			bm.IsBye = true
			bm.LoserSource1UID = &f2.UID
		default:
			prev[j] = lbNode{void: true}
			continue
		}
		matches = append(matches, bm)
		prev[j] = lbNode{sourceUID: &bm.UID}
	}

	for k := 1; k <= rounds-1; k++ {
		count := size >> uint(k+1)

		if k > 1 {
			// Odd round L(2k-1): losers-bracket survivors pair off.
			round := 2*k - 1
			next := make([]lbNode, count)
			for j := 0; j < count; j++ {
				n1, n2 := prev[2*j], prev[2*j+1]
				uid := fmt.Sprintf("LR%dM%d", round, j+1)
				bm := &BracketMatch{UID: uid, Round: round, OrderInRound: j + 1, Segment: models.SegmentLosers}
				switch {
				case !n1.void && !n2.void:
					bm.WinnerSource1UID = n1.sourceUID
					bm.WinnerSource2UID = n2.sourceUID
				case !n1.void:
					bm.IsBye = true
					bm.WinnerSource1UID = n1.sourceUID
				case !n2.void:
					bm.IsBye = true
					bm.WinnerSource1UID = n2.sourceUID
				default:
					next[j] = lbNode{void: true}
					continue
				}
				matches = append(matches, bm)
				next[j] = lbNode{sourceUID: &bm.UID}
			}
			prev = next
		}

		// Even round L(2k): survivors merge with drops from winners round
		// k+1. Those drops always exist, so matches here are never void.
		round := 2 * k
		drops := winners[k]
		next := make([]lbNode, count)
		for j := 0; j < count; j++ {
			uid := fmt.Sprintf("LR%dM%d", round, j+1)
			bm := &BracketMatch{UID: uid, Round: round, OrderInRound: j + 1, Segment: models.SegmentLosers}
			drop := drops[count-1-j]
			bm.LoserSource2UID = &drop.UID
			if prev[j].void {
				bm.IsBye = true
			} else {
				bm.WinnerSource1UID = prev[j].sourceUID
			}
			matches = append(matches, bm)
			next[j] = lbNode{sourceUID: &bm.UID}
		}
		prev = next
	}

	if len(prev) != 1 || prev[0].void || prev[0].sourceUID == nil {
		return nil, "", fmt.Errorf("internal: losers bracket did not converge to a single final")
	}
	return matches, *prev[0].sourceUID, nil
}
