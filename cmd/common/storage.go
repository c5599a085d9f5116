package common

import (
	"context"
	"fmt"

	"github.com/jonesrussell/mcqer/internal/database"
	"github.com/jonesrussell/mcqer/internal/logger"
)

// OpenStore connects to the configured database and migrates the schema.
// The returned function closes the connection.
func OpenStore(ctx context.Context, deps CommandDeps) (*database.QuestionRepository, func(), error) {
	db, err := database.Open(deps.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	repo := database.NewQuestionRepository(db)
	if migrateErr := repo.Migrate(ctx); migrateErr != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", migrateErr)
	}

	deps.Logger.Debug("Question store ready",
		logger.String("driver", deps.Config.Database.Driver),
	)

	closeFn := func() {
		if closeErr := db.Close(); closeErr != nil {
			deps.Logger.Warn("Failed to close database", logger.Error(closeErr))
		}
	}

	return repo, closeFn, nil
}
