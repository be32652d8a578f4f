package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPositions(t *testing.T) {
	tests := []struct {
		size int
		want []int
	}{
		{size: 2, want: []int{1, 2}},
		{size: 4, want: []int{1, 4, 2, 3}},
		{size: 8, want: []int{1, 8, 4, 5, 2, 7, 3, 6}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, seedPositions(tt.size), "size %d", tt.size)
	}
}

func TestBracketSize(t *testing.T) {
	tests := []struct {
		n          int
		wantSize   int
		wantRounds int
	}{
		{n: 2, wantSize: 2, wantRounds: 1},
		{n: 3, wantSize: 4, wantRounds: 2},
		{n: 4, wantSize: 4, wantRounds: 2},
		{n: 5, wantSize: 8, wantRounds: 3},
		{n: 8, wantSize: 8, wantRounds: 3},
		{n: 9, wantSize: 16, wantRounds: 4},
	}
	for _, tt := range tests {
		size, rounds := bracketSize(tt.n)
		assert.Equal(t, tt.wantSize, size, "size for n=%d", tt.n)
		assert.Equal(t, tt.wantRounds, rounds, "rounds for n=%d", tt.n)
	}
}

func TestFirstRoundSlotsLeavesByesEmpty(t *testing.T) {
	order := []int{10, 20, 30, 40, 50, 60}
	slots := firstRoundSlots(order, 8)

	require.Len(t, slots, 8)
	// Seeds 7 and 8 do not exist, so their canonical positions stay empty.
	assert.Nil(t, slots[1])
	assert.Nil(t, slots[5])

	occupied := 0
	for _, s := range slots {
		if s != nil {
			occupied++
		}
	}
	assert.Equal(t, len(order), occupied)

	// Top two seeds land in opposite halves.
	require.NotNil(t, slots[0])
	require.NotNil(t, slots[4])
	assert.Equal(t, 10, *slots[0])
	assert.Equal(t, 20, *slots[4])
}

func TestDrawSeedOrderFixedWithoutRandomize(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40}
	order, err := drawSeedOrder(teamIDs, DrawOptions{}, eliminationPairs)
	require.NoError(t, err)
	assert.Equal(t, teamIDs, order)
}

func TestDrawSeedOrderSeedIsReproducible(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40, 50, 60, 70, 80}
	seed := int64(42)

	first, err := drawSeedOrder(teamIDs, DrawOptions{Randomize: true, Seed: &seed}, eliminationPairs)
	require.NoError(t, err)
	second, err := drawSeedOrder(teamIDs, DrawOptions{Randomize: true, Seed: &seed}, eliminationPairs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, teamIDs, first)
}

func TestDrawSeedOrderRetriesUntilConstraintAccepts(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40}
	seed := int64(7)
	attempts := 0
	constraint := func(pairs [][2]int) bool {
		attempts++
		return attempts >= 3
	}

	_, err := drawSeedOrder(teamIDs, DrawOptions{
		Randomize:   true,
		Seed:        &seed,
		Constraint:  constraint,
		MaxAttempts: 10,
	}, eliminationPairs)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDrawSeedOrderExhaustsAttemptBudget(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40}
	seed := int64(7)
	attempts := 0
	never := func(pairs [][2]int) bool {
		attempts++
		return false
	}

	_, err := drawSeedOrder(teamIDs, DrawOptions{
		Randomize:   true,
		Seed:        &seed,
		Constraint:  never,
		MaxAttempts: 5,
	}, eliminationPairs)
	require.ErrorIs(t, err, ErrDrawExhausted)
	assert.Equal(t, 5, attempts)
}

func TestDrawSeedOrderRejectsFixedOrderFailingConstraint(t *testing.T) {
	teamIDs := []int{10, 20, 30, 40}
	never := func(pairs [][2]int) bool { return false }

	_, err := drawSeedOrder(teamIDs, DrawOptions{Constraint: never}, eliminationPairs)
	require.ErrorIs(t, err, ErrDrawExhausted)
}

func TestDrawSeedOrderDefaultAttempts(t *testing.T) {
	teamIDs := []int{10, 20}
	seed := int64(1)
	attempts := 0
	never := func(pairs [][2]int) bool {
		attempts++
		return false
	}

	_, err := drawSeedOrder(teamIDs, DrawOptions{
		Randomize:  true,
		Seed:       &seed,
		Constraint: never,
	}, eliminationPairs)
	require.ErrorIs(t, err, ErrDrawExhausted)
	assert.Equal(t, DefaultDrawAttempts, attempts)
}
