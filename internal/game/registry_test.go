package game

import (
	"context"
	"testing"
	"time"
)

// fakeSession is the minimal Session used to exercise the registry without
// pulling in a concrete engine.
type fakeSession struct {
	id string
}

func (f *fakeSession) ID() string                { return f.id }
func (f *fakeSession) Type() Type                { return TypeTicTacToe }
func (f *fakeSession) State() State              { return StateActive }
func (f *fakeSession) Player1() Player           { return Player{ID: "u1"} }
func (f *fakeSession) Player2() Player           { return Player{ID: "u2"} }
func (f *fakeSession) ExpirationTime() time.Time { return time.Time{} }
func (f *fakeSession) MessageRef() string        { return "" }
func (f *fakeSession) SetMessageRef(string)      {}

func (f *fakeSession) StartBotGame(context.Context) error  { return nil }
func (f *fakeSession) StartGame(context.Context) error     { return nil }
func (f *fakeSession) EndGameOnTime(context.Context) error { return nil }
func (f *fakeSession) EndGame() bool                       { return true }

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{id: "g1"}
	if err := r.Add(s); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(s); err != ErrAlreadyRegistered {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	got, ok := r.Get("g1")
	if !ok || got.ID() != "g1" {
		t.Fatalf("Get: ok=%v got=%v", ok, got)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
	r.Remove("g1")
	if _, ok := r.Get("g1"); ok {
		t.Fatalf("session should be gone after Remove")
	}
	r.Remove("g1")
}

func TestRegistryIsolation(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	if err := a.Add(&fakeSession{id: "g1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := b.Get("g1"); ok {
		t.Fatalf("registries must not share state")
	}
}
