package tictactoe

import "math/rand"

// BotMove picks the bot's ply (mark 2) by strict priority: immediate win,
// immediate block, full-depth minimax, then a uniformly random empty cell.
// Returns (-1, -1) on a full board.
func BotMove(g Grid, turns int, rng *rand.Rand) (int, int) {
	if r, c, ok := findWinningMove(g, turns, 2); ok {
		return r, c
	}
	if r, c, ok := findWinningMove(g, turns, 1); ok {
		return r, c
	}
	if r, c, ok := minimaxMove(g); ok {
		return r, c
	}
	return randomMove(g, rng)
}

// findWinningMove tries every empty cell for player and reports the first
// placement (row-major) that completes a line.
func findWinningMove(g Grid, turns int, player int) (int, int, bool) {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g[r][c] != 0 {
				continue
			}
			g[r][c] = player
			won := Winner(g, turns+1, false) == player
			g[r][c] = 0
			if won {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// minimaxMove runs an exhaustive minimax for mark 2. Terminal positions
// score -1 (mark 1 wins), +1 (mark 2 wins), 0 (draw); mark 2 maximizes.
// Ties are broken by the first optimal cell in row-major order.
func minimaxMove(g Grid) (int, int, bool) {
	bestScore := -2
	bestR, bestC := -1, -1
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g[r][c] != 0 {
				continue
			}
			g[r][c] = 2
			score := minimaxScore(g, 1)
			g[r][c] = 0
			if score > bestScore {
				bestScore = score
				bestR, bestC = r, c
			}
		}
	}
	if bestR < 0 {
		return 0, 0, false
	}
	return bestR, bestC, true
}

func minimaxScore(g Grid, player int) int {
	switch Winner(g, 0, true) {
	case 1:
		return -1
	case 2:
		return 1
	}
	if full(g) {
		return 0
	}
	best := 2
	if player == 2 {
		best = -2
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g[r][c] != 0 {
				continue
			}
			g[r][c] = player
			score := minimaxScore(g, 3-player)
			g[r][c] = 0
			if player == 2 && score > best {
				best = score
			} else if player == 1 && score < best {
				best = score
			}
		}
	}
	return best
}

func randomMove(g Grid, rng *rand.Rand) (int, int) {
	var empty [][2]int
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g[r][c] == 0 {
				empty = append(empty, [2]int{r, c})
			}
		}
	}
	if len(empty) == 0 {
		return -1, -1
	}
	cell := empty[rng.Intn(len(empty))]
	return cell[0], cell[1]
}
