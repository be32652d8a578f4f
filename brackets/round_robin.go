package brackets

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct {
	Draw DrawOptions
}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket pairs every team with every other team exactly once.
// Round robin matches carry no advancement links; standings derive purely
// from submitted results and awards.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if len(params.TeamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	order, err := drawSeedOrder(params.TeamIDs, g.Draw, roundRobinPairs)
	if err != nil {
		return nil, err
	}

	matches := make([]*BracketMatch, 0, len(order)*(len(order)-1)/2)
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			t1, t2 := order[i], order[j]
			idx := len(matches) + 1
			matches = append(matches, &BracketMatch{
				UID:          fmt.Sprintf("RRM%d", idx),
				Round:        1,
				OrderInRound: idx,
				Team1ID:      &t1,
				Team2ID:      &t2,
			})
		}
	}
	return matches, nil
}

func roundRobinPairs(order []int) [][2]int {
	pairs := make([][2]int, 0, len(order)*(len(order)-1)/2)
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			pairs = append(pairs, [2]int{order[i], order[j]})
		}
	}
	return pairs
}
