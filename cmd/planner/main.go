package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planner-core/appstate"
	"planner-core/assistant"
	"planner-core/assistant/gemini"
	"planner-core/internal/config"
	"planner-core/internal/logging"
	"planner-core/internal/metrics"
	persistence "planner-core/persistence/application"
	pdomain "planner-core/persistence/domain"
	pinfra "planner-core/persistence/infra"
	queue "planner-core/queue/application"
	qinfra "planner-core/queue/infra"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
	}

	syncStore, err := pinfra.OpenBolt(cfg.SyncTierPath)
	if err != nil {
		log.Fatalf("sync tier: %v", err)
	}
	defer func() { _ = syncStore.Close() }()

	asyncStore, closeAsync, err := openAsyncTier(cfg, rdb)
	if err != nil {
		log.Fatalf("async tier: %v", err)
	}
	defer closeAsync()

	stats := qinfra.Tee{qinfra.NewPrometheusStatsStore()}
	if cfg.LimitStatsEnabled {
		stats = append(stats, qinfra.NewRedisStatsStore(
			rdb,
			qinfra.WithStatsPrefix(cfg.LimitStatsPrefix),
			qinfra.WithStatsTTL(cfg.LimitStatsTTL),
			qinfra.WithStatsTrackLabels(true),
		))
	}
	limiter := queue.New(cfg.LimitMaxPerWindow, cfg.LimitWindow,
		queue.WithStats(stats),
		queue.WithLogger(log),
	)

	seed, err := loadSeed(cfg.SeedFile)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	opts := []appstate.Option{appstate.WithSeed(seed), appstate.WithLogger(log)}
	if cfg.APIKey != "" {
		backend, err := gemini.New(ctx, cfg.APIKey, gemini.WithChatModel(cfg.ChatModel), gemini.WithImageModel(cfg.ImageModel))
		if err != nil {
			log.Fatalf("assistant: %v", err)
		}
		client := assistant.NewClient(backend, limiter,
			assistant.WithHistoryTurns(cfg.HistoryTurns),
			assistant.WithLogger(log),
		)
		opts = append(opts, appstate.WithAssistant(client))
	} else {
		log.Warn("API_KEY not set, assistant commands are disabled")
	}

	writes := pinfra.NewWritePool(cfg.AsyncWriteMax)
	store := persistence.New(syncStore, asyncStore,
		persistence.WithLogger(log),
		persistence.WithWriteSlots(writes, 0),
	)
	state := appstate.New(store, opts...)

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server error")
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"max":        cfg.LimitMaxPerWindow,
		"window":     cfg.LimitWindow.String(),
		"syncTier":   cfg.SyncTierPath,
		"asyncTier":  cfg.AsyncTierDriver,
		"writeSlots": cfg.AsyncWriteMax,
		"stats":      cfg.LimitStatsEnabled,
		"metrics":    cfg.MetricsAddr,
	}).Info("planner starting")

	if err := state.Boot(ctx); err != nil {
		log.Fatalf("boot: %v", err)
	}

	c := &console{state: state, limiter: limiter, writes: writes, out: os.Stdout}
	if err := c.run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("console stopped")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := state.Flush(shutdownCtx); err != nil {
		log.WithError(err).Warn("pending writes not flushed")
	}
	if srv != nil {
		_ = srv.Shutdown(shutdownCtx)
	}
	log.Info("planner stopped")
}

func openAsyncTier(cfg config.Config, rdb *redis.Client) (pdomain.AsyncStore, func(), error) {
	switch cfg.AsyncTierDriver {
	case config.DriverRedis:
		return pinfra.NewRedisStore(rdb, pinfra.WithKeyPrefix(cfg.RedisPrefix)), func() {}, nil
	case config.DriverMemory:
		return pinfra.NewMemoryAsyncStore(), func() {}, nil
	default:
		s, err := pinfra.OpenSQLite(cfg.AsyncTierSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}

func loadSeed(path string) (appstate.Seed, error) {
	if path == "" {
		return appstate.DefaultSeed(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return appstate.Seed{}, err
	}
	defer f.Close()
	return appstate.LoadSeed(f)
}
