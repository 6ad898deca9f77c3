package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelfMatch     = errors.New("players must be distinct")
	ErrInvalidPlayer = errors.New("invalid player handle")
	ErrStateRegress  = errors.New("match state cannot move backwards")
	ErrStateConflict = errors.New("match state already moved on")
)

// Entity is the per-match core every engine embeds: identity, participants,
// the lifecycle state machine, and the expiration watcher.
//
// The watcher is a cancellable one-shot timer. Re-arming cancels the pending
// timer and installs a fresh deadline under the entity lock; a cancelled
// timer never fires the expire callback, only a natural elapse of the latest
// deadline does, and at most once.
type Entity struct {
	id      string
	typ     Type
	player1 Player
	player2 Player

	mu         sync.Mutex
	state      State
	expiresAt  time.Time
	timer      *time.Timer
	gen        uint64
	expire     func()
	messageRef string
}

// NewEntity creates a match in the Challenge state. The watcher is armed
// separately via StartWatcher once the owner has wired its expire handler.
func NewEntity(typ Type, player1, player2 Player) (*Entity, error) {
	if !player1.Valid() || !player2.Valid() {
		return nil, ErrInvalidPlayer
	}
	if player1.ID == player2.ID {
		return nil, ErrSelfMatch
	}
	return &Entity{
		id:      uuid.NewString(),
		typ:     typ,
		player1: player1,
		player2: player2,
		state:   StateChallenge,
	}, nil
}

func (e *Entity) ID() string      { return e.id }
func (e *Entity) Type() Type      { return e.typ }
func (e *Entity) Player1() Player { return e.player1 }
func (e *Entity) Player2() Player { return e.player2 }

func (e *Entity) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Entity) ExpirationTime() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expiresAt
}

// MessageRef is the handle of the rendered match message. The entity edits
// that message through the render collaborator but never owns it.
func (e *Entity) MessageRef() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.messageRef
}

func (e *Entity) SetMessageRef(ref string) {
	e.mu.Lock()
	e.messageRef = ref
	e.mu.Unlock()
}

// Advance moves the state machine forward. Regressions are rejected;
// advancing to the current state is a no-op.
func (e *Entity) Advance(next State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, ok := stateOrder[e.state]
	target, ok2 := stateOrder[next]
	if !ok || !ok2 {
		return fmt.Errorf("unknown state %q", next)
	}
	if target < cur {
		return fmt.Errorf("%w: %s -> %s", ErrStateRegress, e.state, next)
	}
	e.state = next
	return nil
}

// AdvanceFrom advances only when the current state is exactly from. It is
// the one-shot form of Advance for transitions that must not repeat, such
// as activating an accepted challenge: the second of two racing callers
// gets ErrStateConflict instead of a no-op.
func (e *Entity) AdvanceFrom(from, next State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := stateOrder[next]; !ok {
		return fmt.Errorf("unknown state %q", next)
	}
	if e.state != from {
		return fmt.Errorf("%w: %s is not %s", ErrStateConflict, e.state, from)
	}
	e.state = next
	return nil
}

// StartWatcher binds the expire handler and arms the first deadline. The
// handler runs outside the entity lock when an uncancelled deadline elapses.
func (e *Entity) StartWatcher(d time.Duration, onExpire func()) {
	e.mu.Lock()
	e.expire = onExpire
	e.rearmLocked(d)
	e.mu.Unlock()
}

// UpdateExpirationTime cancels the pending watcher and installs a fresh
// deadline. Called every ply to implement per-turn timeouts.
func (e *Entity) UpdateExpirationTime(d time.Duration) {
	e.mu.Lock()
	if e.state != StateEnded {
		e.rearmLocked(d)
	}
	e.mu.Unlock()
}

func (e *Entity) rearmLocked(d time.Duration) {
	e.gen++
	gen := e.gen
	e.expiresAt = time.Now().Add(d)
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(d, func() { e.fire(gen) })
}

func (e *Entity) fire(gen uint64) {
	e.mu.Lock()
	// A stale generation means the watcher was re-armed or cancelled after
	// this timer was scheduled; firing then must be a silent no-op.
	if gen != e.gen || e.state == StateEnded || e.expire == nil {
		e.mu.Unlock()
		return
	}
	fn := e.expire
	e.mu.Unlock()
	fn()
}

// EndGame moves the match to Ended, cancels the watcher, and detaches the
// expire handler. Idempotent: it reports whether this call was the one that
// ended the match, so racing call sites (winning move vs. timeout) settle
// cleanly.
func (e *Entity) EndGame() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateEnded {
		return false
	}
	e.state = StateEnded
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.expire = nil
	return true
}

// Ended reports whether the match has been disposed.
func (e *Entity) Ended() bool { return e.State() == StateEnded }
