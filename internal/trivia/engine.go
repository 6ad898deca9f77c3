package trivia

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/internal/obslog"
	"github.com/bob-el-bot/arcade-bot/internal/render"
	"github.com/bob-el-bot/arcade-bot/internal/stats"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

const (
	Title = "Trivia"
	// TotalRounds is the fixed quiz length.
	TotalRounds = 5

	hitMark  = "🟩"
	missMark = "🟥"
)

type Config struct {
	RoundWindow time.Duration // window for all expected answers per round
	BotWindow   time.Duration // window per round in solo play
}

type playerScore struct {
	answered bool
	choice   int
	points   int
	chart    string
}

// Game is one trivia quiz. A solo quiz expects answers from Player1 only;
// a versus quiz waits for both players each round.
type Game struct {
	*game.Entity

	renderer render.Renderer
	reporter stats.Reporter
	msgs     *render.Messages
	bank     *Bank
	cfg      Config

	mu       sync.Mutex
	round    int
	question Question
	p1, p2   playerScore
}

func New(ent *game.Entity, renderer render.Renderer, reporter stats.Reporter, msgs *render.Messages, bank *Bank, cfg Config) *Game {
	return &Game{
		Entity:   ent,
		renderer: renderer,
		reporter: reporter,
		msgs:     msgs,
		bank:     bank,
		cfg:      cfg,
	}
}

// StartBotGame begins a solo quiz: no challenge phase, Player1 answers alone.
func (g *Game) StartBotGame(ctx context.Context) error {
	return g.start(ctx, g.cfg.BotWindow)
}

// StartGame begins a versus quiz after the challenge was accepted.
func (g *Game) StartGame(ctx context.Context) error {
	return g.start(ctx, g.cfg.RoundWindow)
}

// start is one-shot: a second accept for the same quiz is rejected instead
// of burning another question and resetting the round.
func (g *Game) start(ctx context.Context, window time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.AdvanceFrom(game.StateChallenge, game.StateActive); err != nil {
		return err
	}
	q, err := g.bank.Next(ctx)
	if err != nil {
		g.EndGame()
		return fmt.Errorf("first round: %w", err)
	}
	g.round = 1
	g.question = q
	g.UpdateExpirationTime(window)
	return g.renderRoundLocked(ctx)
}

func (g *Game) solo() bool { return g.Player2().IsBot }

// Answer records one player's choice for the current round. It reports
// whether the quiz ended as a result.
func (g *Game) Answer(ctx context.Context, actor game.Player, choice int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.State() != game.StateActive {
		return false, game.ErrMatchEnded
	}
	score, err := g.scoreOf(actor)
	if err != nil {
		return false, err
	}
	if choice < 0 || choice > 3 {
		return false, game.ErrInvalidMove
	}
	if score.answered {
		return false, ErrAlreadyAnswered
	}
	score.answered = true
	score.choice = choice
	if !g.roundCompleteLocked() {
		return false, nil
	}
	return g.endRoundLocked(ctx)
}

func (g *Game) scoreOf(actor game.Player) (*playerScore, error) {
	switch actor.ID {
	case g.Player1().ID:
		return &g.p1, nil
	case g.Player2().ID:
		if g.solo() {
			return nil, game.ErrNotParticipant
		}
		return &g.p2, nil
	default:
		return nil, game.ErrNotParticipant
	}
}

func (g *Game) roundCompleteLocked() bool {
	if g.solo() {
		return g.p1.answered
	}
	return g.p1.answered && g.p2.answered
}

// settleRoundLocked scores whatever answers arrived for the pending round
// and resets the per-round flags.
func (g *Game) settleRoundLocked() {
	scores := []*playerScore{&g.p1}
	if !g.solo() {
		scores = append(scores, &g.p2)
	}
	for _, s := range scores {
		if s.answered && s.choice == g.question.CorrectIndex {
			s.points++
			s.chart += hitMark
		} else {
			s.chart += missMark
		}
		s.answered = false
	}
}

func (g *Game) endRoundLocked(ctx context.Context) (bool, error) {
	g.settleRoundLocked()
	if g.round == TotalRounds {
		return true, g.finishLocked(ctx, false)
	}
	q, err := g.bank.Next(ctx)
	if err != nil {
		// The source is down; settle with the points scored so far
		// rather than stranding the match until its timer fires.
		obslog.L().Error("trivia_round_fetch_error", zap.String("game_id", g.ID()), zap.Error(err))
		return true, g.finishLocked(ctx, false)
	}
	g.round++
	g.question = q
	window := g.cfg.RoundWindow
	if g.solo() {
		window = g.cfg.BotWindow
	}
	g.UpdateExpirationTime(window)
	return false, g.renderRoundLocked(ctx)
}

// EndGameOnTime settles the quiz when the round timer elapses. Answers
// already submitted for the pending round still count. A stale timeout that
// lost the race against the closing answer finds the quiz already ended and
// does nothing.
func (g *Game) EndGameOnTime(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.State() != game.StateActive {
		return nil
	}
	if g.p1.answered || g.p2.answered {
		g.settleRoundLocked()
	}
	return g.finishLocked(ctx, true)
}

func (g *Game) finishLocked(ctx context.Context, forfeited bool) error {
	outcome := g.outcomeLocked(forfeited)
	first := g.EndGame()
	if first && !g.solo() && g.reporter != nil {
		if err := g.reporter.Report(ctx, game.TypeTrivia, g.Player1(), g.Player2(), outcome); err != nil {
			obslog.L().Error("trivia_stats_error", zap.String("game_id", g.ID()), zap.Error(err))
		}
	}
	obslog.L().Info("trivia_end",
		zap.String("game_id", g.ID()),
		zap.String("outcome", string(outcome)),
		zap.Bool("forfeited", forfeited),
		zap.Int("rounds", g.round),
		zap.Int("p1_points", g.p1.points),
		zap.Int("p2_points", g.p2.points),
	)
	err := g.renderer.RenderSummary(ctx, gamedto.SummaryView{
		GameID:     g.ID(),
		MessageRef: g.MessageRef(),
		Title:      g.finalTitleLocked(outcome),
		Lines:      g.summaryLinesLocked(),
	})
	return render.IgnoreGone(obslog.L(), "trivia_render_race", err)
}

func (g *Game) outcomeLocked(forfeited bool) game.WinCase {
	switch {
	case forfeited && g.p1.points == 0 && g.p2.points == 0:
		return game.WinTie
	case g.p2.points > g.p1.points:
		return game.WinPlayer2
	case g.p2.points == g.p1.points:
		return game.WinTie
	default:
		return game.WinPlayer1
	}
}

func (g *Game) finalTitleLocked(outcome game.WinCase) string {
	if g.solo() {
		return g.msgs.SoloDone(g.Player1().Name, g.p1.points, TotalRounds, Title)
	}
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

func (g *Game) summaryLinesLocked() []string {
	lines := []string{
		fmt.Sprintf("%s %s %d pts", g.Player1().Name, g.p1.chart, g.p1.points),
	}
	if !g.solo() {
		lines = append(lines,
			fmt.Sprintf("%s %s %d pts", g.Player2().Name, g.p2.chart, g.p2.points))
	}
	return append(lines, g.msgs.TriviaFooter())
}

func (g *Game) renderRoundLocked(ctx context.Context) error {
	lines := []string{
		g.msgs.TriviaMeta(g.question.Category, g.question.Difficulty),
		g.question.Text,
	}
	for i, a := range g.question.Answers {
		lines = append(lines, fmt.Sprintf("%c) %s", Letters[i], a))
	}
	ref, err := g.renderer.RenderBoard(ctx, gamedto.BoardView{
		GameID:     g.ID(),
		MessageRef: g.MessageRef(),
		Title:      g.msgs.TriviaRound(g.round, TotalRounds),
		Lines:      lines,
		StatusLine: g.msgs.TurnLine(g.pendingNamesLocked(), g.ExpirationTime()),
		Controls:   g.controlsLocked(),
	})
	if err := render.IgnoreGone(obslog.L(), "trivia_render_race", err); err != nil {
		return err
	}
	if ref != "" {
		g.SetMessageRef(ref)
	}
	return nil
}

func (g *Game) pendingNamesLocked() string {
	if g.solo() || !g.p1.answered {
		return g.Player1().Name
	}
	return g.Player2().Name
}

func (g *Game) controlsLocked() []gamedto.Control {
	out := make([]gamedto.Control, 0, 4)
	for i := 0; i < 4; i++ {
		out = append(out, gamedto.Control{
			ID:    fmt.Sprintf("tv:%c:%s", Letters[i], g.ID()),
			Label: string(Letters[i]),
		})
	}
	return out
}
