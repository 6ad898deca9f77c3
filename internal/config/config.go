package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	RedisURL    string
	DatabaseURL string

	TriviaAPIURL string

	ChallengeWindow   time.Duration
	TurnWindow        time.Duration
	BotWindow         time.Duration
	TriviaRoundWindow time.Duration
	ChallengeLimit    int64

	MsgOverridePath string
}

// Load reads configuration from the environment. Malformed values fall back
// to the defaults rather than failing startup; the store URLs are optional
// and select in-memory fallbacks when empty.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ChallengeWindow:   15 * time.Minute,
		TurnWindow:        time.Minute,
		BotWindow:         5 * time.Minute,
		TriviaRoundWindow: 30 * time.Second,
		ChallengeLimit:    1,
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.TriviaAPIURL = strings.TrimSpace(os.Getenv("TRIVIA_API_URL"))
	cfg.MsgOverridePath = strings.TrimSpace(os.Getenv("MESSAGES_FILE"))

	cfg.ChallengeWindow = durationEnv("CHALLENGE_WINDOW", cfg.ChallengeWindow)
	cfg.TurnWindow = durationEnv("TURN_WINDOW", cfg.TurnWindow)
	cfg.BotWindow = durationEnv("BOT_WINDOW", cfg.BotWindow)
	cfg.TriviaRoundWindow = durationEnv("TRIVIA_ROUND_WINDOW", cfg.TriviaRoundWindow)

	if v := strings.TrimSpace(os.Getenv("CHALLENGE_LIMIT")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.ChallengeLimit = n
		}
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
