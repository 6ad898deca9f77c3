package game

import (
	"context"
	"strings"
	"time"
)

// Type identifies the concrete engine behind a match.
type Type string

const (
	TypeTicTacToe   Type = "tictactoe"
	TypeConnectFour Type = "connectfour"
	TypeTrivia      Type = "trivia"
)

// State represents a match lifecycle phase. Transitions are strictly
// forward: Challenge → SettingRules → Active → Ended, with SettingRules
// optional.
type State string

const (
	StateChallenge    State = "CHALLENGE"
	StateSettingRules State = "SETTING_RULES"
	StateActive       State = "ACTIVE"
	StateEnded        State = "ENDED"
)

var stateOrder = map[State]int{
	StateChallenge:    0,
	StateSettingRules: 1,
	StateActive:       2,
	StateEnded:        3,
}

// WinCase is the stats-relevant outcome of a match. None is reported for
// any match involving the bot; those never touch stats.
type WinCase string

const (
	WinPlayer1 WinCase = "player1"
	WinPlayer2 WinCase = "player2"
	WinTie     WinCase = "tie"
	WinNone    WinCase = "none"
)

// Player is an opaque participant handle. IsBot marks the AI sentinel used
// as Player2 in single-player matches.
type Player struct {
	ID    string
	Name  string
	IsBot bool
}

// BotPlayer is the AI opponent sentinel.
var BotPlayer = Player{ID: "bot", Name: "Bot", IsBot: true}

func (p Player) Valid() bool { return strings.TrimSpace(p.ID) != "" }

// Session is the capability set every engine provides on top of Entity.
// StartBotGame begins a match directly against the bot, StartGame begins a
// human match after the challenge is accepted, and EndGameOnTime settles a
// forfeit when the turn timer elapses.
type Session interface {
	ID() string
	Type() Type
	State() State
	Player1() Player
	Player2() Player
	ExpirationTime() time.Time
	MessageRef() string
	SetMessageRef(ref string)

	StartBotGame(ctx context.Context) error
	StartGame(ctx context.Context) error
	EndGameOnTime(ctx context.Context) error
	EndGame() bool
}
