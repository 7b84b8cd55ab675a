package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"healthscan-backend/internal/analyses"
	"healthscan-backend/internal/llm"
	"healthscan-backend/internal/llm/gemini"
	"healthscan-backend/internal/rewards"
	"healthscan-backend/internal/shared/config"
	"healthscan-backend/internal/shared/server"
	"healthscan-backend/internal/shared/storage/db"
	"healthscan-backend/internal/shared/storage/object"
	localstore "healthscan-backend/internal/shared/storage/object/local"
	s3store "healthscan-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	LLM             llm.Client
	AnalysesRepo    analyses.Repo
	RewardsService  *rewards.Service
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
	}

	var repo analyses.Repo
	var rewardsSvc *rewards.Service
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
		rewardsSvc = rewards.NewPostgresService(rewards.NewPGStore(sqlDB))
	} else {
		repo = analyses.NewMemoryRepo()
		rewardsSvc = rewards.NewService()
	}

	analysesSvc := &analyses.Service{
		Repo:    repo,
		Store:   store,
		LLM:     llmClient,
		Rewards: rewardsSvc,
	}

	app.AnalysesRepo = repo
	app.RewardsService = rewardsSvc
	app.AnalysesService = analysesSvc
	app.AnalysisHandler = analyses.NewHandler(analysesSvc)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "gemini" && strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel, cfg.GeminiBaseURL)
	}
	if !isDevLike(cfg.Env) {
		return nil, fmt.Errorf("LLM provider %q is not configured", cfg.LLMProvider)
	}
	log.Printf("bootstrap: LLM not configured; using placeholder client")
	return llm.PlaceholderClient{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
