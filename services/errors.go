package services

import "errors"

// Shared service-layer errors, mapped to HTTP statuses in handlers.
var (
	// Validation / business-rule failures. Terminal for the call, no retry.
	ErrInsufficientEntrants = errors.New("not enough confirmed entrants to generate bracket (minimum 2 required)")
	ErrTiedResult           = errors.New("tied results are not permitted")
	ErrNotAParticipant      = errors.New("submitter is not a participant of this match")
	ErrAlreadySubmitted     = errors.New("match result has already been submitted")
	ErrMatchNotReady        = errors.New("match is not ready for a result")
	ErrInvalidWinner        = errors.New("winner is not a participant of this match")

	// Lookups.
	ErrTournamentNotFound = errors.New("tournament instance not found")
	ErrMatchNotFound      = errors.New("tournament match not found")
	ErrPlayerNotFound     = errors.New("player not found")

	// State conflicts.
	ErrBracketAlreadyGenerated = errors.New("tournament bracket has already been generated")
)
