package trivia

import "errors"

// Question is one decoded multiple-choice question with its correct answer
// already shuffled into one of the four slots.
type Question struct {
	Text         string
	Category     string
	Difficulty   string
	Answers      [4]string
	CorrectIndex int
}

// SourceQuestion is the raw shape delivered by a Fetcher, before the correct
// answer is randomized among the four positions.
type SourceQuestion struct {
	Text       string
	Category   string
	Difficulty string
	Correct    string
	Incorrect  [3]string
}

var (
	ErrAlreadyAnswered = errors.New("player already answered this round")
	ErrUpstreamFetch   = errors.New("question source unreachable")
)

// Letters labels the four answer slots.
const Letters = "abcd"
