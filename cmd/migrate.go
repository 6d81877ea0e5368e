package cmd

import (
	"context"

	"zentra/pkg/database"
)

// MigrateCmd applies the embedded schema migrations.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	config, logger, err := bootstrap(globals)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := connectDB(ctx, config, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(ctx, db, logger)
}
