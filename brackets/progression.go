package brackets

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/arenadraw/bracket-engine/models"
)

var (
	ErrUnknownMatch  = errors.New("match is not part of the bracket")
	ErrInvalidWinner = errors.New("winner is not a participant of the match")
	ErrMatchNotReady = errors.New("match is not ready for a result")
	ErrBrokenLink    = errors.New("advancement link points at a missing match")
)

// Arena holds a tournament's full match set in memory and applies result
// submissions to it, following advancement links. Callers load the arena
// under one transaction, apply, and persist the changed rows; applying the
// same result twice produces no further changes.
type Arena struct {
	matches map[int]*models.Match
	changed map[int]bool
	now     time.Time
}

func NewArena(matches []*models.Match) *Arena {
	a := &Arena{
		matches: make(map[int]*models.Match, len(matches)),
		changed: make(map[int]bool),
	}
	for _, m := range matches {
		a.matches[m.ID] = m
	}
	return a
}

func (a *Arena) Match(id int) *models.Match {
	return a.matches[id]
}

// Changed returns every match mutated since the arena was built, ordered
// by ID for deterministic persistence.
func (a *Arena) Changed() []*models.Match {
	ids := make([]int, 0, len(a.changed))
	for id := range a.changed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*models.Match, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.matches[id])
	}
	return out
}

func (a *Arena) touch(m *models.Match) {
	a.changed[m.ID] = true
}

type Result struct {
	WinnerID int
	Score1   *int
	Score2   *int
}

// SubmitResult records a result on a match and propagates the winner (and,
// where linked, the loser) through the bracket. Resubmitting a completed
// match replaces the previous result and corrects every downstream match
// that had received the old outcome.
func (a *Arena) SubmitResult(matchID int, res Result, now time.Time) error {
	m := a.matches[matchID]
	if m == nil {
		return fmt.Errorf("%w: match %d", ErrUnknownMatch, matchID)
	}
	if m.Status == models.MatchStatusCanceled {
		return fmt.Errorf("%w: match %d is canceled", ErrMatchNotReady, matchID)
	}
	if !m.HasTeam(res.WinnerID) {
		return fmt.Errorf("%w: team %d in match %d", ErrInvalidWinner, res.WinnerID, matchID)
	}
	if !m.IsBye && (m.Team1ID == nil || m.Team2ID == nil) {
		return fmt.Errorf("%w: match %d is waiting for a feeder result", ErrMatchNotReady, matchID)
	}

	a.now = now

	winnerID := res.WinnerID
	m.WinnerID = &winnerID
	m.Score1 = res.Score1
	m.Score2 = res.Score2
	m.Status = models.MatchStatusCompleted
	m.CompletedAt = &now
	a.touch(m)

	return a.propagate(m)
}

// propagate pushes a completed match's outcome into its linked matches.
func (a *Arena) propagate(m *models.Match) error {
	if m.Segment == models.SegmentGrandFinals {
		return a.applyGrandFinals(m)
	}

	if m.NextMatchID != nil {
		if m.WinnerToSlot == nil {
			return fmt.Errorf("%w: match %d has no winner slot", ErrBrokenLink, m.ID)
		}
		if err := a.fillSlot(*m.NextMatchID, *m.WinnerToSlot, m.WinnerID); err != nil {
			return fmt.Errorf("advancing winner of match %d: %w", m.ID, err)
		}
	}
	if m.LoserNextMatchID != nil {
		if m.LoserToSlot == nil {
			return fmt.Errorf("%w: match %d has no loser slot", ErrBrokenLink, m.ID)
		}
		if err := a.fillSlot(*m.LoserNextMatchID, *m.LoserToSlot, m.LoserID()); err != nil {
			return fmt.Errorf("advancing loser of match %d: %w", m.ID, err)
		}
	}
	return nil
}

// fillSlot writes a team reference (possibly nil) into a downstream slot
// and recomputes the target's state. Writing the value already present is
// a no-op, which is what makes re-propagation idempotent. If the target
// had a completed result that depended on the previous occupant, the
// result is cleared and the clearing cascades further downstream.
func (a *Arena) fillSlot(matchID, slot int, teamID *int) error {
	t := a.matches[matchID]
	if t == nil {
		return fmt.Errorf("%w: match %d", ErrBrokenLink, matchID)
	}

	cur := t.SlotTeam(slot)
	if intPtrEqual(cur, teamID) {
		return nil
	}

	t.SetSlotTeam(slot, teamID)
	a.touch(t)

	if t.Status == models.MatchStatusCompleted {
		if err := a.clearResult(t); err != nil {
			return err
		}
	}

	if t.IsBye {
		// A bye completes as soon as its single expected occupant is known.
		if occ := soleOccupant(t); occ != nil {
			return a.completeBye(t, *occ)
		}
		t.Status = models.MatchStatusPending
		return nil
	}

	if t.Team1ID != nil && t.Team2ID != nil {
		t.Status = models.MatchStatusInProgress
	} else {
		t.Status = models.MatchStatusPending
	}
	return nil
}

// clearResult voids a match's recorded outcome after one of its occupants
// changed, emptying whatever its old winner and loser had been advanced
// into.
func (a *Arena) clearResult(t *models.Match) error {
	t.WinnerID = nil
	t.Score1 = nil
	t.Score2 = nil
	t.CompletedAt = nil
	t.Status = models.MatchStatusPending
	a.touch(t)

	if t.Segment == models.SegmentGrandFinals {
		return a.resetGrandFinalsTarget(t)
	}
	if t.NextMatchID != nil && t.WinnerToSlot != nil {
		if err := a.fillSlot(*t.NextMatchID, *t.WinnerToSlot, nil); err != nil {
			return err
		}
	}
	if t.LoserNextMatchID != nil && t.LoserToSlot != nil {
		if err := a.fillSlot(*t.LoserNextMatchID, *t.LoserToSlot, nil); err != nil {
			return err
		}
	}
	return nil
}

func (a *Arena) completeBye(t *models.Match, winnerID int) error {
	completed := a.now
	t.WinnerID = &winnerID
	t.Status = models.MatchStatusCompleted
	t.CompletedAt = &completed
	a.touch(t)
	return a.propagate(t)
}

// applyGrandFinals handles the completion of a grand finals match. With a
// bracket reset configured, the first finals match links to a pre-wired
// second one: a win by the losers-bracket champion (slot 2) activates it,
// a win by the winners-bracket champion cancels it.
func (a *Arena) applyGrandFinals(m *models.Match) error {
	if m.NextMatchID == nil {
		return nil
	}
	reset := a.matches[*m.NextMatchID]
	if reset == nil {
		return fmt.Errorf("%w: grand finals reset match %d", ErrBrokenLink, *m.NextMatchID)
	}

	activate := m.Team2ID != nil && m.WinnerID != nil && *m.WinnerID == *m.Team2ID

	// An unchanged outcome must leave the reset match alone: an activated
	// reset keeps whatever result it already carries, a canceled one stays
	// canceled.
	if activate {
		sameOccupants := intPtrEqual(reset.Team1ID, m.Team1ID) && intPtrEqual(reset.Team2ID, m.Team2ID)
		if sameOccupants && (reset.Status == models.MatchStatusInProgress || reset.Status == models.MatchStatusCompleted) {
			return nil
		}
	} else if reset.Status == models.MatchStatusCanceled {
		return nil
	}

	if reset.Status == models.MatchStatusCompleted {
		if err := a.clearResult(reset); err != nil {
			return err
		}
	}

	if activate {
		reset.Team1ID = m.Team1ID
		reset.Team2ID = m.Team2ID
		reset.Status = models.MatchStatusInProgress
	} else {
		reset.Team1ID = nil
		reset.Team2ID = nil
		reset.Status = models.MatchStatusCanceled
	}
	a.touch(reset)
	return nil
}

// resetGrandFinalsTarget returns a pre-wired reset match to its generated
// state after the first finals match lost its result.
func (a *Arena) resetGrandFinalsTarget(t *models.Match) error {
	if t.NextMatchID == nil {
		return nil
	}
	reset := a.matches[*t.NextMatchID]
	if reset == nil {
		return fmt.Errorf("%w: grand finals reset match %d", ErrBrokenLink, *t.NextMatchID)
	}
	if reset.Status == models.MatchStatusCompleted {
		if err := a.clearResult(reset); err != nil {
			return err
		}
	}
	reset.Team1ID = nil
	reset.Team2ID = nil
	reset.Status = models.MatchStatusPending
	a.touch(reset)
	return nil
}

// soleOccupant returns the only occupied slot of a bye match, or nil while
// both slots are still empty.
func soleOccupant(m *models.Match) *int {
	if m.Team1ID != nil {
		return m.Team1ID
	}
	return m.Team2ID
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
