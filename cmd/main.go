package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/ginvest_bot/config"
	"github.com/KotFed0t/ginvest_bot/data"
	"github.com/KotFed0t/ginvest_bot/data/cache"
	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/data/repository/memoryStore"
	"github.com/KotFed0t/ginvest_bot/data/repository/postgres"
	"github.com/KotFed0t/ginvest_bot/data/repository/redisStore"
	"github.com/KotFed0t/ginvest_bot/data/session"
	"github.com/KotFed0t/ginvest_bot/internal/aiFlow"
	"github.com/KotFed0t/ginvest_bot/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/ginvest_bot/internal/externalApi/geminiApi"
	"github.com/KotFed0t/ginvest_bot/internal/externalApi/quotesApi"
	"github.com/KotFed0t/ginvest_bot/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/ginvest_bot/internal/risk"
	"github.com/KotFed0t/ginvest_bot/internal/scheduler"
	"github.com/KotFed0t/ginvest_bot/internal/service/gameService"
	"github.com/KotFed0t/ginvest_bot/internal/service/marketService"
	"github.com/KotFed0t/ginvest_bot/internal/tgbot"
	"github.com/KotFed0t/ginvest_bot/internal/tradeDialog"
	"github.com/KotFed0t/ginvest_bot/internal/transport/telegram"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.String("storageDriver", cfg.StorageDriver), slog.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *redis.Client
	if cfg.StorageDriver != "memory" {
		redisClient = data.NewRedisClient(ctx, cfg)
		defer redisClient.Close()
	}

	repo := setupRepository(ctx, cfg, redisClient)

	var sessions tgbot.Session
	var quotesCache marketService.Cache
	if redisClient != nil {
		sessions = session.NewRedisSession(redisClient, cfg.SessionExpiration)
		quotesCache = cache.NewRedisCache(redisClient, cfg.Cache.QuotesExpiration)
	} else {
		sessions = session.NewMemorySession(cfg.SessionExpiration)
	}

	var quotes marketService.QuotesApi
	if cfg.API.QuotesApi.Url != "" {
		quotes = quotesApi.New(cfg)
	}

	market := marketService.New(quotesCache, quotes, nil)

	gemini, err := geminiApi.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to create gemini client", slog.String("err", err.Error()))
		panic(err)
	}
	flows := aiFlow.New(gemini, market)

	machine := tradeDialog.New(tradeDialog.Limits{
		MinShares:     1,
		MaxShares:     cfg.Game.MaxShares,
		DefaultShares: cfg.Game.DefaultShares,
	}, risk.New(cfg.Game.RiskMin, cfg.Game.RiskMax, nil))

	var storage gameService.CloudStorage
	var drive *googleDriveApi.GoogleDriveApi
	if cfg.GoogleDrive.CredentialsFile != "" {
		drive, err = googleDriveApi.New(ctx, cfg)
		if err != nil {
			slog.Error("google drive is disabled", slog.String("err", err.Error()))
		} else {
			storage = drive
		}
	}

	gameSrv := gameService.New(cfg, repo, market, machine, xslsxGenerator.New(), storage)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh quotes", market.RefreshQuotes, cfg.Jobs.RefreshQuotesInterval, true)
	if storage != nil {
		sched.NewCrontabJob("cleanup google drive", drive.DeleteOldFiles, cfg.Jobs.CleanupDriveCrontab, false)
	}
	sched.Start()
	defer sched.Stop()

	tgBot := tgbot.New(cfg, sessions)

	tgController := telegram.NewController(gameSrv, flows, market, machine, sessions, tgBot.Bot())
	unsubscribe := repo.Subscribe(tgController.OnPortfolioChanged)
	defer unsubscribe()

	tgBot.Start(tgController)
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

// setupRepository picks the record store. With redis, changes made by other instances
// are fed back to the repository observers.
func setupRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client) *repository.Repository {
	switch cfg.StorageDriver {
	case "memory":
		return repository.New(memoryStore.New())
	case "postgres":
		pgClient := data.NewPostgresClient(cfg)
		go func() {
			<-ctx.Done()
			_ = pgClient.Close()
		}()
		return repository.New(postgres.NewPostgres(pgClient))
	default:
		store := redisStore.New(redisClient, cfg.Redis.ChangeChannel)
		repo := repository.New(store)
		go func() {
			if err := store.Watch(ctx, repo.NotifyNamespace); err != nil {
				slog.Error("change feed stopped", slog.String("err", err.Error()))
			}
		}()
		return repo
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
