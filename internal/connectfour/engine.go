package connectfour

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/internal/obslog"
	"github.com/bob-el-bot/arcade-bot/internal/render"
	"github.com/bob-el-bot/arcade-bot/internal/stats"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

const Title = "Connect 4"

type Config struct {
	TurnWindow time.Duration
	BotWindow  time.Duration
}

// Game is one connect-four match.
type Game struct {
	*game.Entity

	renderer render.Renderer
	reporter stats.Reporter
	msgs     *render.Messages
	cfg      Config
	rng      *rand.Rand

	mu      sync.Mutex
	grid    Grid
	turns   int
	p1Turn  bool
	lastCol int
	lastRow int
}

func New(ent *game.Entity, renderer render.Renderer, reporter stats.Reporter, msgs *render.Messages, cfg Config) *Game {
	return &Game{
		Entity:   ent,
		renderer: renderer,
		reporter: reporter,
		msgs:     msgs,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Game) StartBotGame(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.AdvanceFrom(game.StateChallenge, game.StateActive); err != nil {
		return err
	}
	g.p1Turn = g.rng.Intn(2) == 1
	g.UpdateExpirationTime(g.cfg.BotWindow)
	if err := g.renderBoardLocked(ctx); err != nil {
		return err
	}
	if !g.p1Turn {
		_, err := g.botPlyLocked(ctx)
		return err
	}
	return nil
}

// StartGame is one-shot: a second accept for the same match is rejected
// instead of re-rolling the turn order mid-play.
func (g *Game) StartGame(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.AdvanceFrom(game.StateChallenge, game.StateActive); err != nil {
		return err
	}
	g.p1Turn = g.rng.Intn(2) == 1
	g.UpdateExpirationTime(g.cfg.TurnWindow)
	return g.renderBoardLocked(ctx)
}

// Move drops actor's piece into col (0-based). The piece lands in the
// lowest empty row; a full column rejects the move.
func (g *Game) Move(ctx context.Context, actor game.Player, col int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.State() != game.StateActive {
		return false, game.ErrMatchEnded
	}
	mark, err := g.markOf(actor)
	if err != nil {
		return false, err
	}
	if (mark == 1) != g.p1Turn {
		return false, game.ErrNotYourTurn
	}
	if col < 0 || col >= Cols {
		return false, game.ErrInvalidMove
	}
	row, ok := Drop(&g.grid, col, mark)
	if !ok {
		return false, ErrColumnFull
	}
	g.lastCol, g.lastRow = col, row
	return g.endTurnLocked(ctx)
}

func (g *Game) markOf(actor game.Player) (int, error) {
	switch actor.ID {
	case g.Player1().ID:
		return 1, nil
	case g.Player2().ID:
		if g.Player2().IsBot {
			return 0, game.ErrNotParticipant
		}
		return 2, nil
	default:
		return 0, game.ErrNotParticipant
	}
}

func (g *Game) endTurnLocked(ctx context.Context) (bool, error) {
	g.turns++
	if w := Winner(g.grid, g.turns, g.lastCol, g.lastRow); w > 0 || g.turns == Cols*Rows {
		return true, g.finishLocked(ctx, false)
	}
	g.p1Turn = !g.p1Turn
	window := g.cfg.TurnWindow
	if g.Player2().IsBot {
		window = g.cfg.BotWindow
	}
	g.UpdateExpirationTime(window)
	if err := g.renderBoardLocked(ctx); err != nil {
		return false, err
	}
	if g.Player2().IsBot && !g.p1Turn {
		return g.botPlyLocked(ctx)
	}
	return false, nil
}

func (g *Game) botPlyLocked(ctx context.Context) (bool, error) {
	col := BotMove(g.grid, g.turns, g.lastCol, g.lastRow, g.rng)
	if col < 0 {
		return true, g.finishLocked(ctx, false)
	}
	row, ok := Drop(&g.grid, col, 2)
	if !ok {
		return true, g.finishLocked(ctx, false)
	}
	g.lastCol, g.lastRow = col, row
	return g.endTurnLocked(ctx)
}

// EndGameOnTime settles a forfeit. A stale timeout that lost the race
// against a winning move finds the match already ended and does nothing.
func (g *Game) EndGameOnTime(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.State() != game.StateActive {
		return nil
	}
	return g.finishLocked(ctx, true)
}

func (g *Game) finishLocked(ctx context.Context, forfeited bool) error {
	outcome := Outcome(g.grid, g.turns, g.lastCol, g.lastRow, g.p1Turn, forfeited)
	first := g.EndGame()
	if first && !g.Player2().IsBot && g.reporter != nil {
		if err := g.reporter.Report(ctx, game.TypeConnectFour, g.Player1(), g.Player2(), outcome); err != nil {
			obslog.L().Error("connectfour_stats_error", zap.String("game_id", g.ID()), zap.Error(err))
		}
	}
	obslog.L().Info("connectfour_end",
		zap.String("game_id", g.ID()),
		zap.String("outcome", string(outcome)),
		zap.Bool("forfeited", forfeited),
		zap.Int("turns", g.turns),
	)
	err := g.renderer.RenderSummary(ctx, gamedto.SummaryView{
		GameID:     g.ID(),
		MessageRef: g.MessageRef(),
		Title:      g.finalTitle(outcome),
		Lines:      boardLines(g.grid),
		Controls:   controls(g.grid, g.ID(), true),
	})
	return render.IgnoreGone(obslog.L(), "connectfour_render_race", err)
}

func (g *Game) finalTitle(outcome game.WinCase) string {
	p1, p2 := g.Player1().Name, g.Player2().Name
	switch outcome {
	case game.WinPlayer1:
		return g.msgs.WinTitle(p1, p2, Title)
	case game.WinPlayer2:
		return g.msgs.WinTitle(p2, p1, Title)
	default:
		return g.msgs.DrawTitle(p1, p2, Title)
	}
}

func (g *Game) renderBoardLocked(ctx context.Context) error {
	turn := g.Player1().Name
	if !g.p1Turn {
		turn = g.Player2().Name
	}
	ref, err := g.renderer.RenderBoard(ctx, gamedto.BoardView{
		GameID:     g.ID(),
		MessageRef: g.MessageRef(),
		Title:      g.msgs.Opening(g.Player1().Name, g.Player2().Name, Title, turn),
		Lines:      boardLines(g.grid),
		StatusLine: g.msgs.TurnLine(turn, g.ExpirationTime()),
		Controls:   controls(g.grid, g.ID(), false),
	})
	if err := render.IgnoreGone(obslog.L(), "connectfour_render_race", err); err != nil {
		return err
	}
	if ref != "" {
		g.SetMessageRef(ref)
	}
	return nil
}
