package brackets

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// DrawConstraint inspects the proposed round-one pairings (team IDs; a zero
// entry is a bye) and reports whether the draw is acceptable. Used to
// express rules like "no two teams from the same group meet in round one".
type DrawConstraint func(pairs [][2]int) bool

// DrawOptions control seed-order randomization before slot assignment.
// Randomness only ever appears here, before the tournament is locked.
type DrawOptions struct {
	Randomize bool
	// Seed fixes the shuffle for reproducible draws; ignored when nil.
	Seed *int64
	// Constraint, when set, is checked against the round-one pairings of
	// each shuffle attempt.
	Constraint DrawConstraint
	// MaxAttempts bounds constraint retries. Defaults to
	// DefaultDrawAttempts when zero.
	MaxAttempts int
}

const DefaultDrawAttempts = 20

var ErrDrawExhausted = errors.New("no draw satisfying the constraint found within the attempt budget")

// drawSeedOrder returns the team IDs in seeding order, shuffling when
// requested and retrying until the constraint accepts the round-one
// pairings. pairFn maps a candidate order to its round-one pairings.
func drawSeedOrder(teamIDs []int, opts DrawOptions, pairFn func(order []int) [][2]int) ([]int, error) {
	order := make([]int, len(teamIDs))
	copy(order, teamIDs)

	if !opts.Randomize {
		if opts.Constraint != nil && !opts.Constraint(pairFn(order)) {
			return nil, fmt.Errorf("%w: fixed seed order rejected", ErrDrawExhausted)
		}
		return order, nil
	}

	rng := rand.New(rand.NewSource(rand.Int63()))
	if opts.Seed != nil {
		rng = rand.New(rand.NewSource(*opts.Seed))
	}

	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultDrawAttempts
	}

	for i := 0; i < attempts; i++ {
		rng.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})
		if opts.Constraint == nil || opts.Constraint(pairFn(order)) {
			return order, nil
		}
	}
	return nil, fmt.Errorf("%w: %d attempts", ErrDrawExhausted, attempts)
}

// seedPositions returns the canonical bracket placement of seeds 1..size
// (size a power of two): adjacent pairs meet in round one and the top two
// seeds can only meet in the final.
func seedPositions(size int) []int {
	pos := []int{1}
	for len(pos) < size {
		next := make([]int, 0, len(pos)*2)
		mirror := len(pos)*2 + 1
		for _, p := range pos {
			next = append(next, p, mirror-p)
		}
		pos = next
	}
	return pos
}

// bracketSize returns the padded bracket size and round count for n teams.
func bracketSize(n int) (size, rounds int) {
	rounds = int(math.Ceil(math.Log2(float64(n))))
	size = 1 << uint(rounds)
	return size, rounds
}

// firstRoundSlots places the ordered team IDs into bracket positions,
// leaving nil in bye positions. Slot 2i and 2i+1 form round-one match i.
func firstRoundSlots(order []int, size int) []*int {
	slots := make([]*int, size)
	for i, seed := range seedPositions(size) {
		if seed <= len(order) {
			id := order[seed-1]
			slots[i] = &id
		}
	}
	return slots
}

// eliminationPairs derives the round-one pairings for a candidate order,
// with zero standing in for a bye. Used by draw constraints.
func eliminationPairs(order []int) [][2]int {
	size, _ := bracketSize(len(order))
	slots := firstRoundSlots(order, size)
	pairs := make([][2]int, 0, size/2)
	for i := 0; i < size; i += 2 {
		var pair [2]int
		if slots[i] != nil {
			pair[0] = *slots[i]
		}
		if slots[i+1] != nil {
			pair[1] = *slots[i+1]
		}
		pairs = append(pairs, pair)
	}
	return pairs
}
