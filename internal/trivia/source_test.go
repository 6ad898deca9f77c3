package trivia

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeFetcher struct {
	mu      sync.Mutex
	batches int
	perCall int
	err     error
}

func (f *fakeFetcher) Fetch(_ context.Context, amount int) ([]SourceQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.batches++
	n := f.perCall
	if n <= 0 || n > amount {
		n = amount
	}
	out := make([]SourceQuestion, n)
	for i := range out {
		out[i] = SourceQuestion{
			Text:       fmt.Sprintf("q%d-%d", f.batches, i),
			Category:   "General",
			Difficulty: "easy",
			Correct:    "right",
			Incorrect:  [3]string{"wrong1", "wrong2", "wrong3"},
		}
	}
	return out, nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batches
}

func TestBankFIFO(t *testing.T) {
	f := &fakeFetcher{perCall: 3}
	b := NewBank(f, WithClock(newFakeClock()), WithSeed(1))
	ctx := context.Background()

	q1, err := b.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	q2, err := b.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if q1.Text != "q1-0" || q2.Text != "q1-1" {
		t.Fatalf("expected FIFO order, got %q then %q", q1.Text, q2.Text)
	}
	if f.calls() != 1 {
		t.Fatalf("two pops from one batch should fetch once, got %d", f.calls())
	}
}

func TestBankFetchSpacing(t *testing.T) {
	clock := newFakeClock()
	f := &fakeFetcher{perCall: 1}
	b := NewBank(f, WithClock(clock), WithSeed(1))
	ctx := context.Background()

	if _, err := b.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	// The queue is empty again; 2 seconds later the next fetch must sleep
	// out the remaining 4.
	clock.advance(2 * time.Second)
	if _, err := b.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 4*time.Second {
		t.Fatalf("expected a single 4s sleep, got %v", clock.sleeps)
	}
	if got := clock.Now().Sub(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)); got < 6*time.Second {
		t.Fatalf("fetches only %v apart", got)
	}

	// Past the spacing window no sleep happens.
	clock.advance(10 * time.Second)
	if _, err := b.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(clock.sleeps) != 1 {
		t.Fatalf("expected no additional sleep, got %v", clock.sleeps)
	}
}

func TestBankCorrectSlotRandomized(t *testing.T) {
	f := &fakeFetcher{}
	b := NewBank(f, WithClock(newFakeClock()), WithSeed(7))
	ctx := context.Background()

	seen := map[int]bool{}
	for i := 0; i < MaxQuestionCount; i++ {
		q, err := b.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex > 3 {
			t.Fatalf("correct index out of range: %d", q.CorrectIndex)
		}
		if q.Answers[q.CorrectIndex] != "right" {
			t.Fatalf("correct answer not at CorrectIndex: %+v", q)
		}
		wrong := 0
		for j, a := range q.Answers {
			if j != q.CorrectIndex {
				if a == "right" {
					t.Fatalf("duplicate correct answer: %+v", q)
				}
				wrong++
			}
		}
		if wrong != 3 {
			t.Fatalf("expected 3 incorrect answers, got %d", wrong)
		}
		seen[q.CorrectIndex] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected the correct slot to cover all 4 positions over %d questions, saw %v", MaxQuestionCount, seen)
	}
}

func TestBankUpstreamError(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: boom", ErrUpstreamFetch)}
	b := NewBank(f, WithClock(newFakeClock()), WithSeed(1))
	if _, err := b.Next(context.Background()); !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch, got %v", err)
	}
}
