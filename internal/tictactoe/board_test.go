package tictactoe

import (
	"testing"

	"github.com/bob-el-bot/arcade-bot/internal/game"
)

func TestWinnerShortCircuit(t *testing.T) {
	// A complete line must not be reported below the minimum ply count
	// unless the probe forces the scan.
	g := Grid{{1, 1, 1}, {0, 0, 0}, {0, 0, 0}}
	if w := Winner(g, 2, false); w != 0 {
		t.Fatalf("turns=2: expected 0, got %d", w)
	}
	if w := Winner(g, 2, true); w != 1 {
		t.Fatalf("forced: expected 1, got %d", w)
	}
	if w := Winner(g, 3, false); w != 1 {
		t.Fatalf("turns=3: expected 1, got %d", w)
	}
}

func TestWinnerTopRow(t *testing.T) {
	g := Grid{{1, 1, 0}, {0, 2, 0}, {2, 0, 1}}
	if w := Winner(g, 5, false); w != 0 {
		t.Fatalf("expected no winner yet, got %d", w)
	}
	g[0][2] = 1
	if w := Winner(g, 6, false); w != 1 {
		t.Fatalf("expected top row win for 1, got %d", w)
	}
}

func TestWinnerColumnsAndDiagonals(t *testing.T) {
	cases := []struct {
		name string
		grid Grid
		want int
	}{
		{"column", Grid{{2, 1, 0}, {2, 1, 0}, {0, 1, 2}}, 1},
		{"main diagonal", Grid{{2, 1, 0}, {1, 2, 0}, {1, 0, 2}}, 2},
		{"anti diagonal", Grid{{2, 2, 1}, {2, 1, 0}, {1, 0, 0}}, 1},
		{"open board", Grid{{2, 1, 0}, {1, 2, 0}, {0, 0, 0}}, 0},
	}
	for _, tc := range cases {
		if w := Winner(tc.grid, 9, false); w != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, w)
		}
	}
}

func TestOutcome(t *testing.T) {
	win2 := Grid{{2, 2, 2}, {1, 1, 0}, {1, 0, 0}}
	if o := Outcome(win2, 7, false, false); o != game.WinPlayer2 {
		t.Fatalf("expected player2 win, got %s", o)
	}
	win1 := Grid{{1, 1, 1}, {2, 2, 0}, {2, 0, 0}}
	if o := Outcome(win1, 7, true, false); o != game.WinPlayer1 {
		t.Fatalf("expected player1 win, got %s", o)
	}
	draw := Grid{{1, 2, 1}, {2, 1, 2}, {2, 1, 2}}
	if o := Outcome(draw, 9, true, false); o != game.WinTie {
		t.Fatalf("expected tie, got %s", o)
	}
	// Forfeit: the side whose turn it was loses.
	if o := Outcome(Grid{}, 3, true, true); o != game.WinPlayer2 {
		t.Fatalf("p1 forfeit: expected player2 win, got %s", o)
	}
	mid := Grid{{1, 0, 0}, {0, 2, 0}, {0, 0, 0}}
	if o := Outcome(mid, 2, false, true); o != game.WinPlayer1 {
		t.Fatalf("p2 forfeit: expected player1 win, got %s", o)
	}
	// Timing out before any ply is a draw, not a forfeit loss.
	if o := Outcome(Grid{}, 0, false, true); o != game.WinTie {
		t.Fatalf("zero-turn forfeit: expected tie, got %s", o)
	}
}

func TestControls(t *testing.T) {
	g := Grid{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	cs := controls(g, "g1", false)
	if len(cs) != 9 {
		t.Fatalf("expected 9 controls, got %d", len(cs))
	}
	if !cs[0].Disabled {
		t.Fatalf("occupied cell must render disabled")
	}
	if cs[1].Disabled {
		t.Fatalf("empty cell must stay enabled while active")
	}
	for _, c := range controls(g, "g1", true) {
		if !c.Disabled {
			t.Fatalf("all controls must be disabled once ended")
		}
	}
}
