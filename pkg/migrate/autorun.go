package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/washline-backend/pkg/config"
	"github.com/angelmondragon/washline-backend/pkg/db"
	"github.com/angelmondragon/washline-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations on startup when running in dev
// with WASHLINE_AUTO_MIGRATE enabled. It is a no-op everywhere else.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, nil)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "migrations.autorun.start")

	done, err := runner.Up(ctx)
	if err != nil {
		return err
	}
	for _, m := range done {
		logg.Info(logg.WithField(ctx, "version", m.Version), "migrations.applied")
	}
	logg.Info(logg.WithField(ctx, "applied", len(done)), "migrations.autorun.complete")
	return nil
}
