package stats

import (
	"context"

	"github.com/bob-el-bot/arcade-bot/internal/game"
)

// Reporter is the persistence collaborator for finished matches. It is only
// invoked for human-vs-human completions; matches against the bot never
// reach it.
type Reporter interface {
	Report(ctx context.Context, typ game.Type, player1, player2 game.Player, outcome game.WinCase) error
}

// winShare maps an outcome to the fractional win credited to each side.
func winShare(outcome game.WinCase) (p1, p2 float64) {
	switch outcome {
	case game.WinPlayer1:
		return 1, 0
	case game.WinPlayer2:
		return 0, 1
	case game.WinTie:
		return 0.5, 0.5
	default:
		return 0, 0
	}
}

func wonBy(outcome game.WinCase, isPlayer1 bool) bool {
	return (isPlayer1 && outcome == game.WinPlayer1) || (!isPlayer1 && outcome == game.WinPlayer2)
}
