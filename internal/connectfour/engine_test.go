package connectfour

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/internal/render"
	"github.com/bob-el-bot/arcade-bot/internal/stats"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

type fakeRenderer struct {
	mu        sync.Mutex
	summaries int
}

func (f *fakeRenderer) RenderPrompt(context.Context, gamedto.PromptView) (string, error) {
	return "m1", nil
}

func (f *fakeRenderer) RenderBoard(context.Context, gamedto.BoardView) (string, error) {
	return "m1", nil
}

func (f *fakeRenderer) RenderSummary(context.Context, gamedto.SummaryView) error {
	f.mu.Lock()
	f.summaries++
	f.mu.Unlock()
	return nil
}

var (
	alice = game.Player{ID: "u1", Name: "Alice"}
	bob   = game.Player{ID: "u2", Name: "Bob"}
)

func newTestGame(t *testing.T, reporter stats.Reporter) (*Game, *fakeRenderer) {
	t.Helper()
	ent, err := game.NewEntity(game.TypeConnectFour, alice, bob)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	r := &fakeRenderer{}
	g := New(ent, r, reporter, render.NewMessages(nil), Config{TurnWindow: time.Hour, BotWindow: time.Hour})
	return g, r
}

func TestVerticalWinEndsMatch(t *testing.T) {
	repo := stats.NewMemoryRepository()
	g, r := newTestGame(t, repo)
	ctx := context.Background()
	if err := g.StartGame(ctx); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	first, second := alice, bob
	if !g.p1Turn {
		first, second = bob, alice
	}

	// First mover stacks column 0, second spreads out.
	plies := []struct {
		actor game.Player
		col   int
	}{
		{first, 0}, {second, 1}, {first, 0}, {second, 2}, {first, 0}, {second, 3}, {first, 0},
	}
	var ended bool
	for i, p := range plies {
		var err error
		ended, err = g.Move(ctx, p.actor, p.col)
		if err != nil {
			t.Fatalf("ply %d: %v", i, err)
		}
	}
	if !ended {
		t.Fatalf("expected the fourth stacked piece to end the match")
	}
	if _, err := g.Move(ctx, second, 4); !errors.Is(err, game.ErrMatchEnded) {
		t.Fatalf("expected ErrMatchEnded, got %v", err)
	}
	if r.summaries != 1 {
		t.Fatalf("expected one summary render, got %d", r.summaries)
	}
	s, err := repo.GetStats(ctx, first.ID, game.TypeConnectFour)
	if err != nil || s == nil {
		t.Fatalf("GetStats: %v %v", s, err)
	}
	if s.Wins != 1 {
		t.Fatalf("winner stats: %+v", s)
	}
}

func TestStaleTimeoutAfterWinIsSilent(t *testing.T) {
	repo := stats.NewMemoryRepository()
	g, r := newTestGame(t, repo)
	ctx := context.Background()
	if err := g.StartGame(ctx); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	first, second := alice, bob
	if !g.p1Turn {
		first, second = bob, alice
	}
	plies := []struct {
		actor game.Player
		col   int
	}{
		{first, 0}, {second, 1}, {first, 0}, {second, 2}, {first, 0}, {second, 3}, {first, 0},
	}
	for i, p := range plies {
		if _, err := g.Move(ctx, p.actor, p.col); err != nil {
			t.Fatalf("ply %d: %v", i, err)
		}
	}
	// A timer that elapsed during the winning ply fires late.
	if err := g.EndGameOnTime(ctx); err != nil {
		t.Fatalf("EndGameOnTime: %v", err)
	}
	if r.summaries != 1 {
		t.Fatalf("stale timeout rendered a second summary, got %d", r.summaries)
	}
	loser, err := repo.GetStats(ctx, second.ID, game.TypeConnectFour)
	if err != nil || loser == nil {
		t.Fatalf("GetStats loser: %v %v", loser, err)
	}
	if loser.Games != 1 || loser.Wins != 0 {
		t.Fatalf("stale timeout handed the loser a forfeit win: %+v", loser)
	}
}

func TestSecondStartRejected(t *testing.T) {
	g, _ := newTestGame(t, nil)
	ctx := context.Background()
	if err := g.StartGame(ctx); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	first := alice
	if !g.p1Turn {
		first = bob
	}
	if _, err := g.Move(ctx, first, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	g.mu.Lock()
	turnBefore := g.p1Turn
	g.mu.Unlock()
	if err := g.StartGame(ctx); !errors.Is(err, game.ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict on a duplicate start, got %v", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.p1Turn != turnBefore {
		t.Fatalf("duplicate start re-rolled the turn order")
	}
	if g.turns != 1 {
		t.Fatalf("duplicate start reset the ply count, turns=%d", g.turns)
	}
}

func TestFullColumnRejected(t *testing.T) {
	g, _ := newTestGame(t, nil)
	ctx := context.Background()
	if err := g.StartGame(ctx); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	first, second := alice, bob
	if !g.p1Turn {
		first, second = bob, alice
	}
	// Alternate in column 5 until it fills without a line of four.
	cols := []int{5, 5, 5, 6, 5, 5, 6, 5}
	actors := []game.Player{first, second, first, second, first, second, first, second}
	for i := range cols {
		if _, err := g.Move(ctx, actors[i], cols[i]); err != nil {
			t.Fatalf("ply %d: %v", i, err)
		}
	}
	if _, err := g.Move(ctx, first, 5); !errors.Is(err, ErrColumnFull) {
		t.Fatalf("expected ErrColumnFull, got %v", err)
	}
	if _, err := g.Move(ctx, first, 9); !errors.Is(err, game.ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
}
