package stats

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/bob-el-bot/arcade-bot/internal/domain"
	"github.com/bob-el-bot/arcade-bot/internal/game"
)

// Repository persists match outcomes and per-player aggregates in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Report upserts both players' aggregates for one finished match. Matches
// involving the bot and None outcomes are never recorded.
func (r *Repository) Report(ctx context.Context, typ game.Type, player1, player2 game.Player, outcome game.WinCase) error {
	if r == nil || r.db == nil {
		return nil
	}
	if player1.IsBot || player2.IsBot || outcome == game.WinNone {
		return nil
	}
	share1, share2 := winShare(outcome)
	if err := r.upsertPlayer(ctx, typ, player1.ID, share1, wonBy(outcome, true)); err != nil {
		return err
	}
	return r.upsertPlayer(ctx, typ, player2.ID, share2, wonBy(outcome, false))
}

func (r *Repository) upsertPlayer(ctx context.Context, typ game.Type, playerID string, share float64, won bool) error {
	streakDelta := 0
	if won {
		streakDelta = 1
	}
	q := `INSERT INTO player_game_stats (
	    player_id, game_type, games, wins, win_streak, updated_at
	  ) VALUES ($1,$2,1,$3,$4,NOW())
	  ON CONFLICT (player_id, game_type) DO UPDATE SET
	    games=player_game_stats.games+1,
	    wins=player_game_stats.wins+EXCLUDED.wins,
	    win_streak=CASE WHEN $5 THEN player_game_stats.win_streak+1 ELSE 0 END,
	    updated_at=NOW()`
	_, err := r.db.ExecContext(ctx, q, playerID, string(typ), share, streakDelta, won)
	return err
}

// GetStats returns a player's aggregate for one game type, or nil when the
// player has no recorded matches of that type.
func (r *Repository) GetStats(ctx context.Context, playerID string, typ game.Type) (*domain.PlayerStats, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	q := `SELECT games, wins, win_streak, updated_at
	  FROM player_game_stats WHERE player_id=$1 AND game_type=$2`
	var s domain.PlayerStats
	s.PlayerID = playerID
	s.GameType = string(typ)
	err := r.db.QueryRowContext(ctx, q, playerID, string(typ)).
		Scan(&s.Games, &s.Wins, &s.WinStreak, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
