package connectfour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

const (
	Cols = 7
	Rows = 6
)

var ErrColumnFull = errors.New("column is full")

// Grid is the 7×6 board, indexed [col][row] with row 0 at the top. 0 is
// empty, 1 is Player1's piece, 2 is Player2's.
type Grid [Cols][Rows]int

// Drop lands a piece in the lowest empty row of col. It reports the landing
// row, or false when the column is full.
func Drop(g *Grid, col, mark int) (int, bool) {
	if col < 0 || col >= Cols {
		return 0, false
	}
	for row := Rows - 1; row >= 0; row-- {
		if g[col][row] == 0 {
			g[col][row] = mark
			return row, true
		}
	}
	return 0, false
}

// Winner inspects only the four line directions through the last-played
// cell, counting consecutive same-owner pieces in both senses per direction.
// Only the newest piece can complete a fresh line, which keeps the check
// O(1) per move. Below 7 turns no line of four can exist.
func Winner(g Grid, turns, lastCol, lastRow int) int {
	if turns < 7 {
		return 0
	}
	player := g[lastCol][lastRow]
	if player == 0 {
		return 0
	}
	directions := [4][2]int{
		{1, 0},  // horizontal
		{0, 1},  // vertical
		{1, 1},  // diagonal, bottom-left to top-right
		{1, -1}, // diagonal, top-left to bottom-right
	}
	for _, dir := range directions {
		count := 1
		for _, sense := range [2]int{-1, 1} {
			colDir, rowDir := dir[0]*sense, dir[1]*sense
			for j := 1; j < 4; j++ {
				col := lastCol + j*colDir
				row := lastRow + j*rowDir
				if col < 0 || col >= Cols || row < 0 || row >= Rows || g[col][row] != player {
					break
				}
				count++
			}
		}
		if count >= 4 {
			return player
		}
	}
	return 0
}

// Outcome maps a terminal or forfeited position to its stats outcome,
// mirroring the tic-tac-toe forfeit rules: the side to move loses, except
// that a forfeit before any ply is a draw.
func Outcome(g Grid, turns, lastCol, lastRow int, p1Turn, forfeited bool) game.WinCase {
	w := Winner(g, turns, lastCol, lastRow)
	switch {
	case w == 2 || (forfeited && p1Turn):
		return game.WinPlayer2
	case (w == 0 && turns == Cols*Rows) || (forfeited && turns == 0):
		return game.WinTie
	default:
		return game.WinPlayer1
	}
}

func boardLines(g Grid) []string {
	lines := make([]string, 0, Rows+1)
	for row := 0; row < Rows; row++ {
		var b strings.Builder
		for col := 0; col < Cols; col++ {
			switch g[col][row] {
			case 1:
				b.WriteString("🔵")
			case 2:
				b.WriteString("🔴")
			default:
				b.WriteString("⚫")
			}
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, "1️⃣2️⃣3️⃣4️⃣5️⃣6️⃣7️⃣")
	return lines
}

// controls yields one drop control per column; full columns and finished
// games render disabled.
func controls(g Grid, id string, gameOver bool) []gamedto.Control {
	out := make([]gamedto.Control, 0, Cols)
	for col := 0; col < Cols; col++ {
		out = append(out, gamedto.Control{
			ID:       fmt.Sprintf("connect4:%d:%s", col+1, id),
			Label:    fmt.Sprintf("%d", col+1),
			Disabled: gameOver || g[col][0] != 0,
		})
	}
	return out
}
