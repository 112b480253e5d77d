// Package app wires the application together: configuration, database,
// Genkit, knowledge store, tools, engine and indexer. Everything is
// injected through constructors; nothing here is a singleton.
package app

import (
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adler0/ragent/internal/config"
	"github.com/adler0/ragent/internal/engine"
	"github.com/adler0/ragent/internal/knowledge"
	"github.com/adler0/ragent/internal/log"
	"github.com/adler0/ragent/internal/rag"
)

// App is the assembled application.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit    *genkit.Genkit
	DBPool    *pgxpool.Pool
	Knowledge *knowledge.Store
	Engine    *engine.Engine
	Indexer   *rag.Indexer
}

// Close releases all resources. Safe to call after a partially failed
// Setup.
func (a *App) Close() error {
	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Debug("database pool closed")
	}
	return nil
}
