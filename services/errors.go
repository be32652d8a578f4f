package services

import "errors"

// Shared errors surfaced by the engine's services and mapped to HTTP in the
// handlers. Nothing in this subsystem is ever caught and discarded: a
// silent failure here is an invisible, wrong bracket.
var (
	// Not found
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrFormatNotFound     = errors.New("format not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrTeamNotFound       = errors.New("team not found")

	// Validation
	ErrValidationFailed       = errors.New("validation failed")
	ErrNotEnoughTeams         = errors.New("at least 2 teams are required")
	ErrDuplicateTeam          = errors.New("duplicate team identifier")
	ErrDuplicatePlacement     = errors.New("duplicate placement in one assignment")
	ErrInvalidPlacement       = errors.New("placement is out of range")
	ErrNoMedalsGiven          = errors.New("at least one medal must be assigned")
	ErrTournamentNameRequired = errors.New("tournament name is required")

	// Lock phase
	ErrTournamentLocked        = errors.New("tournament bracket is locked")
	ErrTournamentNotLocked     = errors.New("tournament bracket is not locked yet")
	ErrTournamentAlreadyLocked = errors.New("tournament bracket is already locked")

	// Results
	ErrInvalidWinner = errors.New("winner is not a participant of the match")
	ErrMatchNotReady = errors.New("match is not ready for a result")

	// Category
	ErrCategoryMismatch = errors.New("operation does not match the tournament category")

	// Generation
	ErrUnsupportedBracketType = errors.New("unsupported bracket type")
	ErrGenerationExhausted    = errors.New("could not generate a bracket satisfying the draw constraint")

	// Propagation failed after the source match was already completed. The
	// transaction is rolled back and the operation retried once before this
	// surfaces; retrying is safe because propagation is idempotent.
	ErrPropagationFailed = errors.New("failed to propagate match result")
)
