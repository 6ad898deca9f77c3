package connectfour

import "math/rand"

const searchDepth = 4

// BotMove picks the bot's column (mark 2). The opening ply is random;
// afterwards a depth-limited minimax with alpha-beta pruning scores lines
// through each candidate landing cell. Returns -1 when no column is open.
func BotMove(g Grid, turns, lastCol, lastRow int, rng *rand.Rand) int {
	if turns <= 1 {
		return randomColumn(g, rng)
	}
	_, col := minimax(&g, turns, searchDepth, true, -1<<30, 1<<30, lastCol, lastRow)
	if col < 0 || g[col][0] != 0 {
		return randomColumn(g, rng)
	}
	return col
}

func randomColumn(g Grid, rng *rand.Rand) int {
	var open []int
	for col := 0; col < Cols; col++ {
		if g[col][0] == 0 {
			open = append(open, col)
		}
	}
	if len(open) == 0 {
		return -1
	}
	return open[rng.Intn(len(open))]
}

// minimax favors faster wins and slower losses by folding the remaining
// depth into the terminal scores.
func minimax(g *Grid, turns, depth int, maximizing bool, alpha, beta, lastCol, lastRow int) (int, int) {
	switch Winner(*g, turns, lastCol, lastRow) {
	case 2:
		return 1000 + depth, -1
	case 1:
		return -1000 - depth, -1
	}
	if turns == Cols*Rows {
		return 0, -1
	}
	if depth == 0 {
		return evaluate(*g, lastCol, lastRow), -1
	}

	mark := 1
	bestScore := 1 << 30
	if maximizing {
		mark = 2
		bestScore = -1 << 30
	}
	bestCol := -1

	for col := 0; col < Cols; col++ {
		row, ok := Drop(g, col, mark)
		if !ok {
			continue
		}
		score, _ := minimax(g, turns+1, depth-1, !maximizing, alpha, beta, col, row)
		g[col][row] = 0

		if maximizing {
			if score > bestScore {
				bestScore, bestCol = score, col
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score < bestScore {
				bestScore, bestCol = score, col
			}
			if score < beta {
				beta = score
			}
		}
		if beta <= alpha {
			break
		}
	}
	return bestScore, bestCol
}

// evaluate scores the neighborhood of the last move: open-ended runs for the
// owner minus runs the opponent holds through the same cell.
func evaluate(g Grid, lastCol, lastRow int) int {
	player := g[lastCol][lastRow]
	if player == 0 {
		return 0
	}
	opponent := 3 - player
	directions := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	score := 0
	for _, dir := range directions {
		score += evaluateDirection(g, lastCol, lastRow, dir[0], dir[1], player)
		score -= evaluateDirection(g, lastCol, lastRow, dir[0], dir[1], opponent)
	}
	return score
}

func evaluateDirection(g Grid, startCol, startRow, colDir, rowDir, player int) int {
	count := 1
	open := 0
	for _, sense := range [2]int{1, -1} {
		col := startCol + colDir*sense
		row := startRow + rowDir*sense
		for col >= 0 && col < Cols && row >= 0 && row < Rows {
			if g[col][row] == player {
				count++
			} else {
				if g[col][row] == 0 {
					open++
				}
				break
			}
			col += colDir * sense
			row += rowDir * sense
		}
	}
	if open == 0 {
		return 0
	}
	return count * count * open
}
