package cmd

import (
	"context"
	"fmt"
	"log"

	"zentra/pkg/database"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config  string
	Version string
}

// bootstrap loads config and builds the logger.
func bootstrap(globals *Globals) (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig(globals.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production defaults.", err)
		logger, _ = zap.NewProduction()
	}
	return config, logger, nil
}

func connectDB(ctx context.Context, config *utils.Config, logger *zap.Logger) (database.PgxIface, error) {
	db, err := database.InitDB(ctx, config.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("Database connected successfully")
	return db, nil
}
