package challenge

import (
	"errors"

	"github.com/bob-el-bot/arcade-bot/internal/connectfour"
	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/internal/trivia"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

// UserError maps a rejected action to the coded error shown to the acting
// player. Validation rejections pass their message through; anything else is
// reported as an internal failure.
func UserError(err error) gamedto.DomainError {
	code := "internal_error"
	message := "something went wrong, try again later"
	switch {
	case errors.Is(err, ErrMatchNotFound), errors.Is(err, game.ErrMatchEnded):
		code, message = "match_not_found", ErrMatchNotFound.Error()
	case errors.Is(err, ErrSelfChallenge):
		code, message = "self_challenge", err.Error()
	case errors.Is(err, ErrChallengeLimit):
		code, message = "challenge_limit", err.Error()
	case errors.Is(err, ErrNotChallenge), errors.Is(err, game.ErrStateConflict):
		code, message = "not_challenge", ErrNotChallenge.Error()
	case errors.Is(err, game.ErrNotYourTurn):
		code, message = "not_your_turn", err.Error()
	case errors.Is(err, game.ErrNotParticipant):
		code, message = "not_participant", err.Error()
	case errors.Is(err, connectfour.ErrColumnFull):
		code, message = "column_full", err.Error()
	case errors.Is(err, trivia.ErrAlreadyAnswered):
		code, message = "already_answered", err.Error()
	case errors.Is(err, game.ErrInvalidMove):
		code, message = "invalid_move", err.Error()
	}
	return gamedto.DomainError{Code: code, Message: message}
}
