package tictactoe

import (
	"fmt"

	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

// Grid is the 3×3 board, indexed [row][col]. 0 is empty, 1 is Player1's
// mark, 2 is Player2's.
type Grid [3][3]int

// Winner scans the 3 rows, 3 columns, and 2 diagonals and returns the owner
// of the first completed line, or 0. Fewer than 3 plies cannot complete a
// line, so the scan is skipped below that unless force is set (used when
// probing hypothetical positions whose ply count is unknown).
func Winner(g Grid, turns int, force bool) int {
	if !force && turns < 3 {
		return 0
	}
	for i := 0; i < 3; i++ {
		if g[i][0] != 0 && g[i][0] == g[i][1] && g[i][1] == g[i][2] {
			return g[i][0]
		}
		if g[0][i] != 0 && g[0][i] == g[1][i] && g[1][i] == g[2][i] {
			return g[0][i]
		}
	}
	if g[0][0] != 0 && g[0][0] == g[1][1] && g[1][1] == g[2][2] {
		return g[0][0]
	}
	if g[0][2] != 0 && g[0][2] == g[1][1] && g[1][1] == g[2][0] {
		return g[0][2]
	}
	return 0
}

// Outcome maps a terminal or forfeited position to its stats outcome. On
// forfeit the side whose turn it was loses, except that a forfeit before any
// ply is a draw.
func Outcome(g Grid, turns int, p1Turn, forfeited bool) game.WinCase {
	w := Winner(g, turns, forfeited)
	switch {
	case w == 2 || (forfeited && p1Turn):
		return game.WinPlayer2
	case (w == 0 && turns == 9) || (forfeited && turns == 0):
		return game.WinTie
	default:
		return game.WinPlayer1
	}
}

func full(g Grid) bool {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g[r][c] == 0 {
				return false
			}
		}
	}
	return true
}

func markLabel(mark int) string {
	switch mark {
	case 1:
		return "O"
	case 2:
		return "X"
	default:
		return "·"
	}
}

func boardLines(g Grid) []string {
	lines := make([]string, 3)
	for r := 0; r < 3; r++ {
		lines[r] = markLabel(g[r][0]) + " " + markLabel(g[r][1]) + " " + markLabel(g[r][2])
	}
	return lines
}

// controls yields one control per cell; occupied cells and finished games
// render disabled.
func controls(g Grid, id string, gameOver bool) []gamedto.Control {
	out := make([]gamedto.Control, 0, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			occupied := g[r][c] != 0
			label := markLabel(g[r][c])
			if !occupied {
				label = fmt.Sprintf("%d,%d", r, c)
			}
			out = append(out, gamedto.Control{
				ID:       fmt.Sprintf("ttt:%d-%d:%s", r, c, id),
				Label:    label,
				Disabled: occupied || gameOver,
			})
		}
	}
	return out
}
