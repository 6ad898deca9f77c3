package trivia

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	// MaxQuestionCount is the largest batch the upstream source serves.
	MaxQuestionCount = 50
	// minFetchSpacing is the shared per-source rate limit: no two fetches
	// may start less than this far apart, across all concurrent matches.
	minFetchSpacing = 6 * time.Second

	defaultBaseURL = "https://opentdb.com/api.php"
)

// Clock abstracts time for the fetch spacing so tests can inject one.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Fetcher retrieves a batch of questions from the remote bank.
type Fetcher interface {
	Fetch(ctx context.Context, amount int) ([]SourceQuestion, error)
}

// Client fetches base64-encoded question batches from the Open Trivia DB.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
}

func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 4},
		timeout: 10 * time.Second,
	}
}

type apiResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Category         string   `json:"category"`
		Difficulty       string   `json:"difficulty"`
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

func (c *Client) Fetch(ctx context.Context, amount int) ([]SourceQuestion, error) {
	if amount <= 0 || amount > MaxQuestionCount {
		amount = MaxQuestionCount
	}
	url := fmt.Sprintf("%s?amount=%d&type=multiple&encode=base64", c.baseURL, amount)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(url)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	if sc := resp.StatusCode(); sc != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFetch, sc)
	}

	var parsed apiResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	if parsed.ResponseCode != 0 {
		return nil, fmt.Errorf("%w: response code %d", ErrUpstreamFetch, parsed.ResponseCode)
	}

	out := make([]SourceQuestion, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if len(r.IncorrectAnswers) < 3 {
			continue
		}
		q := SourceQuestion{}
		var err error
		if q.Text, err = decodeField(r.Question); err != nil {
			return nil, err
		}
		if q.Category, err = decodeField(r.Category); err != nil {
			return nil, err
		}
		if q.Difficulty, err = decodeField(r.Difficulty); err != nil {
			return nil, err
		}
		if q.Correct, err = decodeField(r.CorrectAnswer); err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			if q.Incorrect[i], err = decodeField(r.IncorrectAnswers[i]); err != nil {
				return nil, err
			}
		}
		out = append(out, q)
	}
	return out, nil
}

func decodeField(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: bad field encoding: %v", ErrUpstreamFetch, err)
	}
	return string(b), nil
}

// Bank is the shared FIFO queue of pre-fetched questions. Refills run
// through a capacity-1 semaphore that also enforces the minimum spacing
// between fetches; this is the one deliberate bottleneck in the core, since
// the upstream bank rate-limits per source, not per match.
type Bank struct {
	fetcher Fetcher
	clock   Clock
	sem     chan struct{}

	mu        sync.Mutex
	queue     []Question
	lastFetch time.Time
	rng       *rand.Rand
}

type BankOption func(*Bank)

func WithClock(c Clock) BankOption {
	return func(b *Bank) { b.clock = c }
}

func WithSeed(seed int64) BankOption {
	return func(b *Bank) { b.rng = rand.New(rand.NewSource(seed)) }
}

func NewBank(f Fetcher, opts ...BankOption) *Bank {
	b := &Bank{
		fetcher: f,
		clock:   systemClock{},
		sem:     make(chan struct{}, 1),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Next pops the oldest queued question, fetching a fresh batch first when
// the queue is empty.
func (b *Bank) Next(ctx context.Context) (Question, error) {
	if q, ok := b.pop(); ok {
		return q, nil
	}
	if err := b.refill(ctx); err != nil {
		return Question{}, err
	}
	if q, ok := b.pop(); ok {
		return q, nil
	}
	return Question{}, fmt.Errorf("%w: empty batch", ErrUpstreamFetch)
}

func (b *Bank) pop() (Question, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return Question{}, false
	}
	q := b.queue[0]
	b.queue = b.queue[1:]
	return q, true
}

func (b *Bank) refill(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-b.sem }()

	// Another refill may have completed while this one waited on the
	// semaphore.
	b.mu.Lock()
	queued := len(b.queue)
	last := b.lastFetch
	b.mu.Unlock()
	if queued > 0 {
		return nil
	}

	if !last.IsZero() {
		if elapsed := b.clock.Now().Sub(last); elapsed < minFetchSpacing {
			b.clock.Sleep(minFetchSpacing - elapsed)
		}
	}

	batch, err := b.fetcher.Fetch(ctx, MaxQuestionCount)
	now := b.clock.Now()
	if err != nil {
		b.mu.Lock()
		b.lastFetch = now
		b.mu.Unlock()
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFetch = now
	for _, src := range batch {
		b.queue = append(b.queue, b.shuffleLocked(src))
	}
	return nil
}

// shuffleLocked places the correct answer in a uniformly random slot.
func (b *Bank) shuffleLocked(src SourceQuestion) Question {
	q := Question{
		Text:         src.Text,
		Category:     src.Category,
		Difficulty:   src.Difficulty,
		CorrectIndex: b.rng.Intn(4),
	}
	wrong := 0
	for i := 0; i < 4; i++ {
		if i == q.CorrectIndex {
			q.Answers[i] = src.Correct
		} else {
			q.Answers[i] = src.Incorrect[wrong]
			wrong++
		}
	}
	return q
}
