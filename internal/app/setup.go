package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/adler0/ragent/db"
	"github.com/adler0/ragent/internal/config"
	"github.com/adler0/ragent/internal/engine"
	"github.com/adler0/ragent/internal/gateway"
	"github.com/adler0/ragent/internal/knowledge"
	"github.com/adler0/ragent/internal/log"
	"github.com/adler0/ragent/internal/rag"
	"github.com/adler0/ragent/internal/tool"
)

// Setup creates and initializes the application. Call Close to release
// the resources it acquires.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	a.Knowledge = knowledge.New(pool, embedder, logger)

	registry, err := provideRegistry(a.Knowledge, cfg, logger)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.NewGenkit(gateway.GenkitConfig{
		Genkit:      g,
		ModelName:   cfg.FullModelName(),
		Logger:      logger,
		RateLimiter: provideRateLimiter(cfg),
		Temperature: &cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(engine.Config{
		Gateway:     gw,
		Registry:    registry,
		Logger:      logger,
		MaxRewrites: cfg.MaxRewrites,
		ToolTimeout: time.Duration(cfg.ToolTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	a.Engine = eng

	chunker, err := rag.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	indexer, err := rag.NewIndexer(a.Knowledge, rag.NewLoader(nil, logger), chunker, logger)
	if err != nil {
		return nil, err
	}
	a.Indexer = indexer

	return a, nil
}

// provideDBPool runs migrations and creates the PostgreSQL connection
// pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the Google AI plugin. The plugin
// reads GEMINI_API_KEY from the environment.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	return g, nil
}

// provideRegistry builds the tool registry. The retriever over the
// knowledge store is the only built-in tool.
func provideRegistry(store *knowledge.Store, cfg *config.Config, logger log.Logger) (*tool.Registry, error) {
	retriever, err := tool.NewRetriever(store, cfg.TopK, logger)
	if err != nil {
		return nil, fmt.Errorf("creating retriever tool: %w", err)
	}
	return tool.NewRegistry(retriever)
}

// provideRateLimiter converts the configured requests-per-minute into a
// token bucket. Zero means no client-side throttling.
func provideRateLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.RequestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
}
