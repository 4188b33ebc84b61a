package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"

	"github.com/edotat/edotat/cmd/utils/internal/seeding"
)

// SeedDemo loads the demo catalog into the directory database and creates
// the demo diner account.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	if err := seeding.SeedCatalog(ctx, client.Database("edotat_directory")); err != nil {
		return fmt.Errorf("seed directory demo: %w", err)
	}
	logger.Info("Directory demo catalog seeded")

	if err := seeding.SeedDemoAccount(ctx, client.Database("edotat_authn")); err != nil {
		return fmt.Errorf("seed demo account: %w", err)
	}
	logger.Info("Demo account ready", "email", seeding.DemoAccountEmail)

	return nil
}
