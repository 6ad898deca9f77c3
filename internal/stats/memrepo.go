package stats

import (
	"context"
	"sync"
	"time"

	"github.com/bob-el-bot/arcade-bot/internal/domain"
	"github.com/bob-el-bot/arcade-bot/internal/game"
)

// memrepo is a development-only in-memory Reporter used when no database is
// configured.
type memrepo struct {
	mu       sync.RWMutex
	profiles map[string]*domain.PlayerStats // playerID|gameType
}

func NewMemoryRepository() *memrepo {
	return &memrepo{profiles: make(map[string]*domain.PlayerStats)}
}

func (m *memrepo) Report(ctx context.Context, typ game.Type, player1, player2 game.Player, outcome game.WinCase) error {
	if player1.IsBot || player2.IsBot || outcome == game.WinNone {
		return nil
	}
	share1, share2 := winShare(outcome)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyLocked(typ, player1.ID, share1, wonBy(outcome, true))
	m.applyLocked(typ, player2.ID, share2, wonBy(outcome, false))
	return nil
}

func (m *memrepo) applyLocked(typ game.Type, playerID string, share float64, won bool) {
	key := playerID + "|" + string(typ)
	p, ok := m.profiles[key]
	if !ok {
		p = &domain.PlayerStats{PlayerID: playerID, GameType: string(typ)}
		m.profiles[key] = p
	}
	p.Games++
	p.Wins += share
	if won {
		p.WinStreak++
	} else {
		p.WinStreak = 0
	}
	p.UpdatedAt = time.Now()
}

func (m *memrepo) GetStats(ctx context.Context, playerID string, typ game.Type) (*domain.PlayerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[playerID+"|"+string(typ)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
