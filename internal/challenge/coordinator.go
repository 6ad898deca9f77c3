package challenge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bob-el-bot/arcade-bot/internal/connectfour"
	"github.com/bob-el-bot/arcade-bot/internal/game"
	"github.com/bob-el-bot/arcade-bot/internal/obslog"
	"github.com/bob-el-bot/arcade-bot/internal/render"
	"github.com/bob-el-bot/arcade-bot/internal/stats"
	"github.com/bob-el-bot/arcade-bot/internal/tictactoe"
	"github.com/bob-el-bot/arcade-bot/internal/trivia"
	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

var (
	ErrMatchNotFound  = errors.New("match no longer exists")
	ErrSelfChallenge  = errors.New("cannot challenge yourself")
	ErrChallengeLimit = errors.New("too many unresolved challenges")
	ErrNotChallenge   = errors.New("match is no longer awaiting a response")
	ErrUnknownType    = errors.New("unknown game type")
)

type Config struct {
	ChallengeWindow   time.Duration // accept/decline window
	TurnWindow        time.Duration // per ply, human grid matches
	BotWindow         time.Duration // per ply, matches against the bot
	TriviaRoundWindow time.Duration // per trivia round
	ChallengeLimit    int64         // unresolved challenges per player
}

func DefaultConfig() Config {
	return Config{
		ChallengeWindow:   15 * time.Minute,
		TurnWindow:        time.Minute,
		BotWindow:         5 * time.Minute,
		TriviaRoundWindow: 30 * time.Second,
		ChallengeLimit:    1,
	}
}

// Coordinator runs the invitation flow and routes move events to the owning
// engine. It owns the session registry and the per-type engine maps, so move
// dispatch never downcasts through the session interface.
type Coordinator struct {
	cfg      Config
	renderer render.Renderer
	reporter stats.Reporter
	msgs     *render.Messages
	bank     *trivia.Bank
	counters CounterStore
	registry *game.Registry

	mu  sync.RWMutex
	ttt map[string]*tictactoe.Game
	c4  map[string]*connectfour.Game
	tv  map[string]*trivia.Game
}

func NewCoordinator(cfg Config, renderer render.Renderer, reporter stats.Reporter, msgs *render.Messages, bank *trivia.Bank, counters CounterStore) *Coordinator {
	if counters == nil {
		counters = NewMemoryStore()
	}
	return &Coordinator{
		cfg:      cfg,
		renderer: renderer,
		reporter: reporter,
		msgs:     msgs,
		bank:     bank,
		counters: counters,
		registry: game.NewRegistry(),
		ttt:      make(map[string]*tictactoe.Game),
		c4:       make(map[string]*connectfour.Game),
		tv:       make(map[string]*trivia.Game),
	}
}

// Live reports how many sessions are registered.
func (c *Coordinator) Live() int { return c.registry.Len() }

// CanChallenge rejects self-challenges and players with too many unresolved
// challenges outstanding.
func (c *Coordinator) CanChallenge(ctx context.Context, challenger, target game.Player) error {
	if challenger.ID == target.ID {
		return ErrSelfChallenge
	}
	n, err := c.counters.Count(ctx, challenger.ID)
	if err != nil {
		return fmt.Errorf("challenge counter: %w", err)
	}
	if n >= c.cfg.ChallengeLimit {
		return ErrChallengeLimit
	}
	return nil
}

// Start creates a match. Against the bot it goes straight to Active; against
// a human it renders an accept/decline prompt and arms the challenge window.
func (c *Coordinator) Start(ctx context.Context, challenger, target game.Player, typ game.Type) (game.Session, error) {
	if !target.IsBot {
		if err := c.CanChallenge(ctx, challenger, target); err != nil {
			return nil, err
		}
	}
	s, err := c.build(typ, challenger, target)
	if err != nil {
		return nil, err
	}
	if err := c.register(s); err != nil {
		return nil, err
	}
	id := s.ID()
	s.(watcher).StartWatcher(c.cfg.ChallengeWindow, func() { c.expire(id) })

	if target.IsBot {
		if err := s.StartBotGame(ctx); err != nil {
			c.dispose(ctx, s)
			return nil, err
		}
		obslog.L().Info("match_start_bot", zap.String("game_id", id), zap.String("type", string(typ)))
		return s, nil
	}

	if _, err := c.counters.Incr(ctx, challenger.ID); err != nil {
		c.dispose(ctx, s)
		return nil, fmt.Errorf("challenge counter: %w", err)
	}
	ref, err := c.renderer.RenderPrompt(ctx, gamedto.PromptView{
		GameID: id,
		Text:   c.msgs.ChallengePrompt(challenger.Name, target.Name, title(typ), s.ExpirationTime()),
		Controls: []gamedto.Control{
			{ID: "ch:accept:" + id, Label: "Accept"},
			{ID: "ch:decline:" + id, Label: "Decline"},
		},
	})
	if err != nil {
		c.dispose(ctx, s)
		return nil, err
	}
	s.SetMessageRef(ref)
	obslog.L().Info("challenge_issue",
		zap.String("game_id", id),
		zap.String("type", string(typ)),
		zap.String("challenger", challenger.ID),
		zap.String("target", target.ID),
	)
	return s, nil
}

// watcher is the arming capability of game.Entity, which every engine embeds.
type watcher interface {
	StartWatcher(d time.Duration, onExpire func())
}

func (c *Coordinator) build(typ game.Type, challenger, target game.Player) (game.Session, error) {
	ent, err := game.NewEntity(typ, challenger, target)
	if err != nil {
		return nil, err
	}
	switch typ {
	case game.TypeTicTacToe:
		return tictactoe.New(ent, c.renderer, c.reporter, c.msgs,
			tictactoe.Config{TurnWindow: c.cfg.TurnWindow, BotWindow: c.cfg.BotWindow}), nil
	case game.TypeConnectFour:
		return connectfour.New(ent, c.renderer, c.reporter, c.msgs,
			connectfour.Config{TurnWindow: c.cfg.TurnWindow, BotWindow: c.cfg.BotWindow}), nil
	case game.TypeTrivia:
		return trivia.New(ent, c.renderer, c.reporter, c.msgs, c.bank,
			trivia.Config{RoundWindow: c.cfg.TriviaRoundWindow, BotWindow: c.cfg.TriviaRoundWindow}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

func (c *Coordinator) register(s game.Session) error {
	if err := c.registry.Add(s); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch g := s.(type) {
	case *tictactoe.Game:
		c.ttt[g.ID()] = g
	case *connectfour.Game:
		c.c4[g.ID()] = g
	case *trivia.Game:
		c.tv[g.ID()] = g
	}
	return nil
}

// Accept transitions a pending challenge to active play. Only the challenged
// player may accept.
func (c *Coordinator) Accept(ctx context.Context, id string, actor game.Player) error {
	s, err := c.pending(id, actor)
	if err != nil {
		return err
	}
	if err := s.StartGame(ctx); err != nil {
		// A duplicate accept that raced past the pending check loses the
		// one-shot start; the live match stays up.
		if errors.Is(err, game.ErrStateConflict) {
			return ErrNotChallenge
		}
		c.dispose(ctx, s)
		return err
	}
	obslog.L().Info("challenge_accept", zap.String("game_id", id), zap.String("actor", actor.ID))
	return nil
}

// Decline settles a pending challenge without a match. Only the challenged
// player may decline.
func (c *Coordinator) Decline(ctx context.Context, id string, actor game.Player) error {
	s, err := c.pending(id, actor)
	if err != nil {
		return err
	}
	err = c.renderer.RenderSummary(ctx, gamedto.SummaryView{
		GameID:     id,
		MessageRef: s.MessageRef(),
		Title:      c.msgs.ChallengeDeclined(s.Player1().Name, s.Player2().Name, title(s.Type())),
	})
	if err := render.IgnoreGone(obslog.L(), "challenge_render_race", err); err != nil {
		return err
	}
	c.dispose(ctx, s)
	obslog.L().Info("challenge_decline", zap.String("game_id", id), zap.String("actor", actor.ID))
	return nil
}

func (c *Coordinator) pending(id string, actor game.Player) (game.Session, error) {
	s, ok := c.registry.Get(id)
	if !ok {
		return nil, ErrMatchNotFound
	}
	if s.State() != game.StateChallenge {
		return nil, ErrNotChallenge
	}
	if actor.ID != s.Player2().ID {
		return nil, game.ErrNotParticipant
	}
	return s, nil
}

// PlayCell routes one tic-tac-toe ply.
func (c *Coordinator) PlayCell(ctx context.Context, id string, actor game.Player, row, col int) error {
	c.mu.RLock()
	g, ok := c.ttt[id]
	c.mu.RUnlock()
	if !ok {
		return ErrMatchNotFound
	}
	ended, err := g.Move(ctx, actor, row, col)
	if ended {
		c.dispose(ctx, g)
	}
	return err
}

// DropToken routes one connect-four ply.
func (c *Coordinator) DropToken(ctx context.Context, id string, actor game.Player, col int) error {
	c.mu.RLock()
	g, ok := c.c4[id]
	c.mu.RUnlock()
	if !ok {
		return ErrMatchNotFound
	}
	ended, err := g.Move(ctx, actor, col)
	if ended {
		c.dispose(ctx, g)
	}
	return err
}

// Answer routes one trivia answer, given as its choice letter (a-d).
func (c *Coordinator) Answer(ctx context.Context, id string, actor game.Player, letter string) error {
	c.mu.RLock()
	g, ok := c.tv[id]
	c.mu.RUnlock()
	if !ok {
		return ErrMatchNotFound
	}
	letter = strings.ToLower(strings.TrimSpace(letter))
	if len(letter) != 1 {
		return game.ErrInvalidMove
	}
	choice := strings.IndexByte(trivia.Letters, letter[0])
	if choice < 0 {
		return game.ErrInvalidMove
	}
	ended, err := g.Answer(ctx, actor, choice)
	if ended {
		c.dispose(ctx, g)
	}
	return err
}

// expire handles a watcher elapse: an unanswered challenge becomes an
// implicit decline, an active match forfeits via the engine.
func (c *Coordinator) expire(id string) {
	s, ok := c.registry.Get(id)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.State() == game.StateChallenge {
		err := c.renderer.RenderSummary(ctx, gamedto.SummaryView{
			GameID:     id,
			MessageRef: s.MessageRef(),
			Title:      c.msgs.ChallengeExpired(s.Player1().Name, s.Player2().Name, title(s.Type())),
		})
		_ = render.IgnoreGone(obslog.L(), "challenge_render_race", err)
		c.dispose(ctx, s)
		obslog.L().Info("challenge_expire", zap.String("game_id", id))
		return
	}

	if err := s.EndGameOnTime(ctx); err != nil {
		obslog.L().Error("match_expire_error", zap.String("game_id", id), zap.Error(err))
	}
	c.dispose(ctx, s)
	obslog.L().Info("match_expire", zap.String("game_id", id), zap.String("type", string(s.Type())))
}

// dispose is the single teardown path: deregister everywhere, release the
// watcher, settle the challenger's counter. Safe to call twice; only the
// call that finds the session still registered decrements the counter.
func (c *Coordinator) dispose(ctx context.Context, s game.Session) {
	id := s.ID()
	c.mu.Lock()
	_, present := c.registryEntryLocked(id)
	delete(c.ttt, id)
	delete(c.c4, id)
	delete(c.tv, id)
	c.mu.Unlock()
	c.registry.Remove(id)
	s.EndGame()
	if present && !s.Player2().IsBot {
		if err := c.counters.Decr(ctx, s.Player1().ID); err != nil {
			obslog.L().Error("challenge_counter_error", zap.String("game_id", id), zap.Error(err))
		}
	}
}

func (c *Coordinator) registryEntryLocked(id string) (game.Session, bool) {
	if g, ok := c.ttt[id]; ok {
		return g, true
	}
	if g, ok := c.c4[id]; ok {
		return g, true
	}
	if g, ok := c.tv[id]; ok {
		return g, true
	}
	return nil, false
}

func title(typ game.Type) string {
	switch typ {
	case game.TypeTicTacToe:
		return tictactoe.Title
	case game.TypeConnectFour:
		return connectfour.Title
	case game.TypeTrivia:
		return trivia.Title
	default:
		return string(typ)
	}
}
