package di

import (
	"fmt"

	"github.com/aristath/fiisentinel/internal/config"
	"github.com/aristath/fiisentinel/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the history database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// history.db - daily closes and yields per ticker
	historyDB, err := database.New(database.Config{
		Path:    cfg.HistoryDBPath(),
		Profile: database.ProfileStandard,
		Name:    "history",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}
	container.HistoryDB = historyDB

	if err := historyDB.Migrate(); err != nil {
		historyDB.Close()
		return nil, fmt.Errorf("failed to apply schema to %s: %w", historyDB.Name(), err)
	}

	log.Info().Str("path", historyDB.Path()).Msg("History database initialized")

	return container, nil
}
