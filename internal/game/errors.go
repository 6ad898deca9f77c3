package game

import "errors"

// Validation failures reported to the acting player. None of these mutate
// match state.
var (
	ErrNotParticipant = errors.New("player is not part of this match")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrInvalidMove    = errors.New("invalid move")
	ErrMatchEnded     = errors.New("match no longer exists")
)
