package bootstrap

import (
	"github.com/priyankc/PersonalAssistantBackend/adapter/out/auth"
	"github.com/priyankc/PersonalAssistantBackend/adapter/out/llm"
	"github.com/priyankc/PersonalAssistantBackend/adapter/out/locker"
	"github.com/priyankc/PersonalAssistantBackend/adapter/out/persistence"
	gmailprovider "github.com/priyankc/PersonalAssistantBackend/adapter/out/provider/gmail"
	"github.com/priyankc/PersonalAssistantBackend/config"
	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	syncservice "github.com/priyankc/PersonalAssistantBackend/core/service/sync"
	"github.com/priyankc/PersonalAssistantBackend/core/service/task"
	"github.com/priyankc/PersonalAssistantBackend/infra/database"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Repositories
	TaskRepo    out.TaskRepository
	HistoryRepo out.SyncHistoryRepository
	SyncLock    out.SyncLock

	// Adapters
	GmailProvider *gmailprovider.Provider
	Verifier      *auth.GoogleVerifier
	Classifier    *llm.Classifier

	// Services
	SyncService  *syncservice.Coordinator
	ReplyService *task.ReplyService
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// Postgres (pgxpool for health checks, sqlx for adapters)
	pool, sqlDB, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = pool
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() {
		pool.Close()
		if err := sqlDB.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close sqlx connection")
		}
	})

	// Redis (sync lock)
	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		cleanup := composeCleanups(cleanups)
		cleanup()
		return nil, nil, err
	}
	deps.Redis = rdb
	cleanups = append(cleanups, func() {
		if err := rdb.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close Redis connection")
		}
	})

	// Repositories
	deps.TaskRepo = persistence.NewTaskRepository(sqlDB)
	deps.HistoryRepo = persistence.NewSyncHistoryRepository(sqlDB)
	deps.SyncLock = locker.NewRedisLock(rdb, cfg.SyncLockTTL)

	// Outbound adapters
	deps.GmailProvider = gmailprovider.NewProvider(&gmailprovider.Config{
		MaxResults:       cfg.SyncMaxResults,
		FetchMaxAttempts: cfg.FetchMaxAttempts,
		FetchBaseDelay:   cfg.FetchBaseDelay,
	})
	deps.Verifier = auth.NewGoogleVerifier()
	deps.Classifier = llm.NewClassifier(llm.ClassifierConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})

	// Services
	window := &domain.WindowPolicy{
		DefaultLookback: cfg.SyncDefaultLookback,
		FloorFallback:   cfg.SyncFloorFallback,
	}
	processor := syncservice.NewBatchProcessor(
		deps.GmailProvider,
		deps.Classifier,
		window,
		syncservice.BatchConfig{
			BatchSize:     cfg.SyncBatchSize,
			ClassifyPause: cfg.SyncClassifyPause,
			BatchPause:    cfg.SyncBatchPause,
		},
	)
	materializer := task.NewMaterializer(deps.TaskRepo)
	deps.SyncService = syncservice.NewCoordinator(
		deps.Verifier,
		deps.GmailProvider,
		processor,
		materializer,
		deps.HistoryRepo,
		window,
	)
	deps.ReplyService = task.NewReplyService(deps.TaskRepo, deps.GmailProvider)

	logger.Info("Dependencies initialized")

	return deps, composeCleanups(cleanups), nil
}

func composeCleanups(cleanups []func()) func() {
	return func() {
		// Reverse order: dependents close before their dependencies.
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}
