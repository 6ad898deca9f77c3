package tictactoe

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

const Title = "Tic Tac Toe"

type Config struct {
	TurnWindow time.Duration // forfeit window per ply in human matches
	BotWindow  time.Duration // window per ply in matches against the bot
}

// Game is one tic-tac-toe match. Move application holds the game lock end to
// end, so concurrent submissions for the same match serialize.
type Game struct {
	*game.Entity

	renderer render.Renderer
	reporter stats.Reporter
	msgs     *render.Messages
	cfg      Config
	rng      *rand.Rand

	mu     sync.Mutex
	grid   Grid
	turns  int
	p1Turn bool
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

// StartBotGame begins a match against the bot: no challenge phase, straight
// to Active with a random first turn.
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

// StartGame begins a human match after the challenge was accepted. One-shot:
// a second accept for the same match is rejected instead of re-rolling the
// turn order mid-play.
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

// Move applies one ply for actor at (row, col). It reports whether the match
// ended as a result, including bot replies triggered by the move.
func (g *Game) Move(ctx context.Context, actor game.Player, row, col int) (bool, error) {
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
	if row < 0 || row > 2 || col < 0 || col > 2 || g.grid[row][col] != 0 {
		return false, game.ErrInvalidMove
	}
	g.grid[row][col] = mark
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
	if w := Winner(g.grid, g.turns, false); w > 0 || g.turns == 9 {
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
	row, col := BotMove(g.grid, g.turns, g.rng)
	if row < 0 {
		return true, g.finishLocked(ctx, false)
	}
	g.grid[row][col] = 2
	return g.endTurnLocked(ctx)
}

// EndGameOnTime settles the match when the turn timer elapses: the side
// whose turn it was forfeits. A stale timeout that lost the race against a
// winning move finds the match already ended and does nothing.
func (g *Game) EndGameOnTime(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.State() != game.StateActive {
		return nil
	}
	return g.finishLocked(ctx, true)
}

func (g *Game) finishLocked(ctx context.Context, forfeited bool) error {
	outcome := Outcome(g.grid, g.turns, g.p1Turn, forfeited)
	first := g.EndGame()
	if first && !g.Player2().IsBot && g.reporter != nil {
		if err := g.reporter.Report(ctx, game.TypeTicTacToe, g.Player1(), g.Player2(), outcome); err != nil {
			obslog.L().Error("tictactoe_stats_error", zap.String("game_id", g.ID()), zap.Error(err))
		}
	}
	obslog.L().Info("tictactoe_end",
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
	return render.IgnoreGone(obslog.L(), "tictactoe_render_race", err)
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
	if err := render.IgnoreGone(obslog.L(), "tictactoe_render_race", err); err != nil {
		return err
	}
	if ref != "" {
		g.SetMessageRef(ref)
	}
	return nil
}
