package connectfour

import (
	"testing"

	"github.com/bob-el-bot/arcade-bot/internal/game"
)

func TestDropGravity(t *testing.T) {
	var g Grid
	row, ok := Drop(&g, 3, 1)
	if !ok || row != Rows-1 {
		t.Fatalf("first drop: row=%d ok=%v", row, ok)
	}
	row, ok = Drop(&g, 3, 2)
	if !ok || row != Rows-2 {
		t.Fatalf("second drop must stack: row=%d ok=%v", row, ok)
	}
	if _, ok := Drop(&g, -1, 1); ok {
		t.Fatalf("out-of-range column must be rejected")
	}
}

func TestDropFullColumn(t *testing.T) {
	var g Grid
	for i := 0; i < Rows; i++ {
		if _, ok := Drop(&g, 0, 1+i%2); !ok {
			t.Fatalf("drop %d should land", i)
		}
	}
	if _, ok := Drop(&g, 0, 1); ok {
		t.Fatalf("expected full column to reject the drop")
	}
}

func TestWinnerVerticalRun(t *testing.T) {
	var g Grid
	// Three stacked pieces for player 1 are not a win.
	for i := 0; i < 3; i++ {
		Drop(&g, 2, 1)
	}
	if w := Winner(g, 7, 2, Rows-3); w != 0 {
		t.Fatalf("three in a row: expected 0, got %d", w)
	}
	row, _ := Drop(&g, 2, 1)
	if w := Winner(g, 8, 2, row); w != 1 {
		t.Fatalf("four in a row: expected 1, got %d", w)
	}
}

func TestWinnerShortCircuit(t *testing.T) {
	var g Grid
	// A full line cannot exist under 7 turns; the scan must not run.
	var row int
	for i := 0; i < 4; i++ {
		row, _ = Drop(&g, 5, 2)
	}
	if w := Winner(g, 6, 5, row); w != 0 {
		t.Fatalf("turns=6: expected 0, got %d", w)
	}
	if w := Winner(g, 7, 5, row); w != 2 {
		t.Fatalf("turns=7: expected 2, got %d", w)
	}
}

func TestWinnerColumnThreeFilled(t *testing.T) {
	var g Grid
	// Column 3 holds four consecutive player-1 pieces ending at row 2.
	for _, row := range []int{5, 4, 3, 2} {
		g[3][row] = 1
	}
	if w := Winner(g, 8, 3, 2); w != 1 {
		t.Fatalf("expected player 1 win at lastMove=(3,2), got %d", w)
	}
}

func TestWinnerHorizontalAndDiagonal(t *testing.T) {
	var g Grid
	// Horizontal run completed in the middle.
	for _, col := range []int{0, 1, 3} {
		g[col][5] = 1
	}
	g[2][5] = 1
	if w := Winner(g, 8, 2, 5); w != 1 {
		t.Fatalf("horizontal: expected 1, got %d", w)
	}

	var d Grid
	// Rising diagonal for player 2 from (0,5) to (3,2).
	d[0][5] = 2
	d[1][4] = 2
	d[2][3] = 2
	d[3][2] = 2
	if w := Winner(d, 10, 3, 2); w != 2 {
		t.Fatalf("diagonal: expected 2, got %d", w)
	}
	// Only directions through the last move count.
	if w := Winner(d, 10, 6, 5); w != 0 {
		t.Fatalf("scan away from the line: expected 0, got %d", w)
	}
}

func TestOutcomeForfeit(t *testing.T) {
	var g Grid
	if o := Outcome(g, 0, 0, 0, true, true); o != game.WinTie {
		t.Fatalf("zero-turn forfeit: expected tie, got %s", o)
	}
	g[0][5] = 1
	if o := Outcome(g, 1, 0, 5, false, true); o != game.WinPlayer1 {
		t.Fatalf("p2 forfeit: expected player1, got %s", o)
	}
	if o := Outcome(g, 1, 0, 5, true, true); o != game.WinPlayer2 {
		t.Fatalf("p1 forfeit: expected player2, got %s", o)
	}
}

func TestControlsDisableFullColumns(t *testing.T) {
	var g Grid
	for i := 0; i < Rows; i++ {
		Drop(&g, 4, 1+i%2)
	}
	cs := controls(g, "g1", false)
	if len(cs) != Cols {
		t.Fatalf("expected %d controls, got %d", Cols, len(cs))
	}
	if !cs[4].Disabled {
		t.Fatalf("full column must render disabled")
	}
	if cs[0].Disabled {
		t.Fatalf("open column must stay enabled")
	}
	for _, c := range controls(g, "g1", true) {
		if !c.Disabled {
			t.Fatalf("all controls must be disabled once ended")
		}
	}
}
