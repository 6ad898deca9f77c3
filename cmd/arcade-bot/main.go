package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bob-el-bot/arcade-bot/internal/challenge"
	appcfg "github.com/bob-el-bot/arcade-bot/internal/config"
	"github.com/bob-el-bot/arcade-bot/internal/msgcat"
	"github.com/bob-el-bot/arcade-bot/internal/obslog"
	"github.com/bob-el-bot/arcade-bot/internal/render"
	"github.com/bob-el-bot/arcade-bot/internal/stats"
	"github.com/bob-el-bot/arcade-bot/internal/trivia"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	cat, err := msgcat.New(cfg.MsgOverridePath)
	if err != nil {
		obslog.L().Fatal("message_catalog_error", zap.Error(err))
	}
	msgs := render.NewMessages(cat)

	// Dry-run renderer until a chat transport is attached.
	renderer := render.NewTextRenderer(nil, obslog.L())

	var reporter stats.Reporter
	var repo *stats.Repository
	if cfg.DatabaseURL != "" {
		repo, err = stats.NewRepository(cfg.DatabaseURL)
		if err != nil {
			obslog.L().Fatal("stats_repo_error", zap.Error(err))
		}
		reporter = repo
	} else {
		obslog.L().Warn("stats_repo_memory_fallback")
		reporter = stats.NewMemoryRepository()
	}

	var counters challenge.CounterStore
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			obslog.L().Fatal("redis_url_error", zap.Error(err))
		}
		rdb = redis.NewClient(opt)
		counters = challenge.NewRedisStore(rdb)
	} else {
		obslog.L().Warn("challenge_store_memory_fallback")
		counters = challenge.NewMemoryStore()
	}

	bank := trivia.NewBank(trivia.NewClient(cfg.TriviaAPIURL))

	coord := challenge.NewCoordinator(challenge.Config{
		ChallengeWindow:   cfg.ChallengeWindow,
		TurnWindow:        cfg.TurnWindow,
		BotWindow:         cfg.BotWindow,
		TriviaRoundWindow: cfg.TriviaRoundWindow,
		ChallengeLimit:    cfg.ChallengeLimit,
	}, renderer, reporter, msgs, bank, counters)

	obslog.L().Info("arcade_bot_ready", zap.Int("live_matches", coord.Live()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	obslog.L().Info("arcade_bot_shutdown")
	if repo != nil {
		_ = repo.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
