package main

import (
	"context"

	migrations "fleetbook/internal/migrations/mongo"
	"fleetbook/pkg/config"
)

func main() {
	cfg := config.Load("migrate")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.MongoConnTimeout)
	defer cancel()

	if err := migrations.NewMigrator(cfg).Run(ctx); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Log.Info("Migrations completed")
}
