package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenadraw/bracket-engine/models"
)

func TestDoubleEliminationTwoTeams(t *testing.T) {
	matches := generate(t, &DoubleEliminationGenerator{}, []int{10, 20})
	require.Len(t, matches, 2)
	m := byUID(matches)

	wbFinal := m["WR1M1"]
	require.NotNil(t, wbFinal)
	assert.Equal(t, models.SegmentWinners, wbFinal.Segment)

	gf := m[GrandFinalsUID]
	require.NotNil(t, gf)
	assert.Equal(t, models.SegmentGrandFinals, gf.Segment)
	require.NotNil(t, gf.WinnerSource1UID)
	assert.Equal(t, "WR1M1", *gf.WinnerSource1UID)
	// With no losers bracket, the loser of the only match goes straight to
	// the grand finals.
	require.NotNil(t, gf.LoserSource2UID)
	assert.Equal(t, "WR1M1", *gf.LoserSource2UID)
	assert.Nil(t, gf.WinnerSource2UID)
}

func TestDoubleEliminationFourTeams(t *testing.T) {
	matches := generate(t, &DoubleEliminationGenerator{}, []int{10, 20, 30, 40})
	require.Len(t, matches, 6)
	m := byUID(matches)

	for _, uid := range []string{"WR1M1", "WR1M2", "WR2M1", "LR1M1", "LR2M1", GrandFinalsUID} {
		require.NotNil(t, m[uid], "missing %s", uid)
	}

	// LR1M1 collects the losers of both winners semifinals.
	lr1 := m["LR1M1"]
	assert.Equal(t, models.SegmentLosers, lr1.Segment)
	require.NotNil(t, lr1.LoserSource1UID)
	require.NotNil(t, lr1.LoserSource2UID)
	assert.Equal(t, "WR1M1", *lr1.LoserSource1UID)
	assert.Equal(t, "WR1M2", *lr1.LoserSource2UID)

	// LR2M1 merges the losers-bracket survivor with the winners final loser.
	lr2 := m["LR2M1"]
	require.NotNil(t, lr2.WinnerSource1UID)
	require.NotNil(t, lr2.LoserSource2UID)
	assert.Equal(t, "LR1M1", *lr2.WinnerSource1UID)
	assert.Equal(t, "WR2M1", *lr2.LoserSource2UID)

	gf := m[GrandFinalsUID]
	require.NotNil(t, gf.WinnerSource1UID)
	require.NotNil(t, gf.WinnerSource2UID)
	assert.Equal(t, "WR2M1", *gf.WinnerSource1UID)
	assert.Equal(t, "LR2M1", *gf.WinnerSource2UID)
}

func TestDoubleEliminationEightTeamsLosersShape(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40, 50, 60, 70, 80}
	matches := generate(t, &DoubleEliminationGenerator{}, teamIDs)

	var winners, losers, finals int
	maxLoserRound := 0
	for _, m := range matches {
		switch m.Segment {
		case models.SegmentWinners:
			winners++
		case models.SegmentLosers:
			losers++
			if m.Round > maxLoserRound {
				maxLoserRound = m.Round
			}
		case models.SegmentGrandFinals:
			finals++
		}
	}

	assert.Equal(t, 7, winners)
	assert.Equal(t, 6, losers)
	assert.Equal(t, 1, finals)
	// Losers rounds alternate minor/major: 2*(rounds-1) of them.
	assert.Equal(t, 4, maxLoserRound)

	// Drops from winners round two arrive in reversed order to delay
	// rematches.
	m := byUID(matches)
	require.NotNil(t, m["LR2M1"].LoserSource2UID)
	require.NotNil(t, m["LR2M2"].LoserSource2UID)
	assert.Equal(t, "WR2M2", *m["LR2M1"].LoserSource2UID)
	assert.Equal(t, "WR2M1", *m["LR2M2"].LoserSource2UID)
}

func TestDoubleEliminationVoidDropsCollapse(t *testing.T) {
	// Five teams: three winners round-one byes produce no losers. One
	// losers match becomes a deferred bye, another vanishes entirely.
	matches := generate(t, &DoubleEliminationGenerator{}, []int{10, 20, 30, 40, 50})
	m := byUID(matches)

	lr1 := m["LR1M1"]
	require.NotNil(t, lr1)
	assert.True(t, lr1.IsBye)
	require.NotNil(t, lr1.LoserSource1UID)
	assert.Equal(t, "WR1M2", *lr1.LoserSource1UID)
	assert.Nil(t, lr1.LoserSource2UID)

	// Both feeders of LR1M2 were byes, so the match does not exist.
	assert.Nil(t, m["LR1M2"])

	// Its downstream slot degrades to a deferred bye fed only by the drop.
	lr2m2 := m["LR2M2"]
	require.NotNil(t, lr2m2)
	assert.True(t, lr2m2.IsBye)
	assert.Nil(t, lr2m2.WinnerSource1UID)
	require.NotNil(t, lr2m2.LoserSource2UID)
	assert.Equal(t, "WR2M1", *lr2m2.LoserSource2UID)
}

func TestDoubleEliminationGrandFinalReset(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40}

	without := generate(t, &DoubleEliminationGenerator{}, teamIDs)
	assert.Nil(t, byUID(without)[GrandFinalsResetUID])

	with := generate(t, &DoubleEliminationGenerator{GrandFinalReset: true}, teamIDs)
	require.Len(t, with, len(without)+1)

	reset := byUID(with)[GrandFinalsResetUID]
	require.NotNil(t, reset)
	assert.Equal(t, models.SegmentGrandFinals, reset.Segment)
	assert.Equal(t, 2, reset.Round)
	require.NotNil(t, reset.WinnerSource1UID)
	assert.Equal(t, GrandFinalsUID, *reset.WinnerSource1UID)
}

func TestDoubleEliminationEveryLoserHasSomewhereToGo(t *testing.T) {
	// Every non-bye winners match except the winners final must appear as a
	// loser source exactly once; the winners final loser drops into the
	// losers final.
	teamIDs := make([]int, 16)
	for i := range teamIDs {
		teamIDs[i] = (i + 1) * 10
	}
	matches := generate(t, &DoubleEliminationGenerator{}, teamIDs)

	loserSources := make(map[string]int)
	for _, m := range matches {
		for _, src := range []*string{m.LoserSource1UID, m.LoserSource2UID} {
			if src != nil {
				loserSources[*src]++
			}
		}
	}

	for _, m := range matches {
		if m.Segment != models.SegmentWinners || m.IsBye {
			continue
		}
		assert.Equal(t, 1, loserSources[m.UID], "loser of %s", m.UID)
	}
}

func TestDoubleEliminationGeneratorName(t *testing.T) {
	assert.Equal(t, "DoubleElimination", (&DoubleEliminationGenerator{}).GetName())
	assert.Equal(t, "SingleElimination", (&SingleEliminationGenerator{}).GetName())
	assert.Equal(t, "RoundRobin", (&RoundRobinGenerator{}).GetName())
}

func TestDoubleEliminationRejectsTooFewTeams(t *testing.T) {
	g := &DoubleEliminationGenerator{}
	_, err := g.GenerateBracket(context.Background(), GenerateBracketParams{TeamIDs: []int{10}})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}
