package domain

import "time"

// PlayerStats is a player's aggregate record for one game type. Wins are
// fractional: a win counts 1.0, a draw 0.5.
type PlayerStats struct {
	PlayerID  string
	GameType  string
	Games     int
	Wins      float64
	WinStreak int
	UpdatedAt time.Time
}
