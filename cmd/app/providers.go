package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nutrisnap/internal/domain/assistant"
	"github.com/yanqian/nutrisnap/internal/domain/history"
	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
	"github.com/yanqian/nutrisnap/internal/domain/session"
	"github.com/yanqian/nutrisnap/internal/infra/artifactstore"
	"github.com/yanqian/nutrisnap/internal/infra/config"
	"github.com/yanqian/nutrisnap/internal/infra/historystore"
	"github.com/yanqian/nutrisnap/internal/infra/imagestore"
	"github.com/yanqian/nutrisnap/internal/infra/imaging"
	"github.com/yanqian/nutrisnap/internal/infra/llm/gemini"
	"github.com/yanqian/nutrisnap/internal/infra/piechart"
	"github.com/yanqian/nutrisnap/internal/infra/sessionstore"
	"github.com/yanqian/nutrisnap/internal/infra/speech"
)

const valkeyPrefix = "nutrisnap"

func provideGeminiClient(cfg *config.Config, logger *slog.Logger) (*gemini.Client, func(), error) {
	client, err := gemini.NewClient(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("gemini client close failed", "error", err)
		}
	}
	return client, cleanup, nil
}

func provideNutritionConfig(cfg *config.Config) nutrition.Config {
	return nutrition.Config{
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		BlurDetection: cfg.Analysis.BlurDetection,
		ArtifactTTL:   cfg.Artifacts.TTL,
		ArchiveImages: cfg.Images.Archive,
	}
}

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		Speak:         cfg.Speech.Enabled,
		SpeakPrefix:   cfg.Speech.PrefixLength,
		ListenTimeout: cfg.Speech.ListenTimeout,
	}
}

func provideSessionConfig(cfg *config.Config) session.Config {
	category, ok := session.ParseCategory(cfg.Preferences.DefaultMealPlan)
	if !ok {
		category = session.CategoryGeneralHealth
	}
	return session.Config{
		DefaultGoalCalories: cfg.Preferences.DefaultGoalCalories,
		MinGoalCalories:     cfg.Preferences.MinGoalCalories,
		MaxGoalCalories:     cfg.Preferences.MaxGoalCalories,
		DefaultMealPlan:     category,
	}
}

func provideBlurDetector(cfg *config.Config) *imaging.LaplacianDetector {
	return imaging.NewLaplacianDetector(cfg.Analysis.BlurThreshold, cfg.Analysis.BlurMaxPixels)
}

func provideChartRenderer(cfg *config.Config) *piechart.Renderer {
	return piechart.NewRenderer(cfg.Analysis.ChartWidth, cfg.Analysis.ChartHeight)
}

// provideHistoryRepository opens the configured backend and falls back to the
// CSV file when a database cannot be reached.
func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) (history.Repository, func(), error) {
	fallback := historystore.NewCSVStore(cfg.History.CSVPath)
	noop := func() {}
	switch cfg.History.Driver {
	case "sqlite":
		store, err := historystore.NewSQLiteStore(context.Background(), cfg.History.SQLitePath)
		if err != nil {
			logger.Error("sqlite history unavailable, using csv file", "path", cfg.History.SQLitePath, "error", err)
			return fallback, noop, nil
		}
		logger.Info("sqlite history enabled", "path", cfg.History.SQLitePath)
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		pool, err := newPostgresPool(cfg.History.Postgres)
		if err != nil {
			logger.Error("postgres history unavailable, using csv file", "error", err)
			return fallback, noop, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := historystore.NewPostgresStore(ctx, pool)
		if err != nil {
			logger.Error("postgres history schema failed, using csv file", "error", err)
			pool.Close()
			return fallback, noop, nil
		}
		logger.Info("postgres history enabled")
		return store, pool.Close, nil
	case "memory":
		logger.Warn("in-memory history enabled, entries are lost on restart")
		return historystore.NewMemoryStore(), noop, nil
	default:
		logger.Info("csv history enabled", "path", cfg.History.CSVPath)
		return fallback, noop, nil
	}
}

func newPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// provideValkeyClient returns nil when Valkey is disabled or unreachable so
// the stores below fall back to process memory.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Artifacts.Redis.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg.Artifacts.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey enabled", "addr", cfg.Artifacts.Redis.Addr)
	return client, client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideArtifactStore(client valkey.Client) nutrition.ArtifactStore {
	if client == nil {
		return artifactstore.NewMemoryStore()
	}
	return artifactstore.NewValkeyStore(client, valkeyPrefix)
}

func provideSessionStore(cfg *config.Config, client valkey.Client) session.Store {
	if client == nil {
		return sessionstore.NewMemoryStore()
	}
	return sessionstore.NewValkeyStore(client, valkeyPrefix, cfg.Preferences.SessionTTL)
}

func provideImageArchive(cfg *config.Config, logger *slog.Logger) nutrition.ImageArchive {
	if !cfg.Images.Archive {
		return nil
	}
	images := cfg.Images
	if images.Driver == "memory" {
		logger.Info("in-memory image archive enabled")
		return imagestore.NewMemoryArchive()
	}
	archive, err := imagestore.NewR2Archive(images.Endpoint, images.AccessKey, images.SecretKey, images.Bucket, images.Region, logger)
	if err != nil {
		logger.Error("image archive unavailable, meal photos will not be kept", "error", err)
		return nil
	}
	logger.Info("image archive enabled", "bucket", images.Bucket)
	return archive
}

func provideSpeaker(cfg *config.Config, logger *slog.Logger) assistant.Speaker {
	if !cfg.Speech.Enabled {
		return speech.NoopSpeaker{}
	}
	return speech.NewCommandSpeaker(cfg.Speech.Command, cfg.Speech.Args, logger)
}

func provideTranscriber(cfg *config.Config, client *gemini.Client, logger *slog.Logger) *speech.GeminiTranscriber {
	return speech.NewGeminiTranscriber(client, cfg.LLM.Model, cfg.Speech.PhraseLimit, logger)
}
