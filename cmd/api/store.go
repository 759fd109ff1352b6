package main

import (
	"context"
	"fmt"

	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/infrastructure/db/memory"
	"github.com/99minutos/identity-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/identity-service/internal/infrastructure/db/postgres"
	"github.com/99minutos/identity-service/internal/pkg/config"
)

// openStore connects the repository selected by STORE_DRIVER and prepares
// its schema. The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (ports.UserRepository, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, client.Disconnect, nil

	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.Postgres.URL); err != nil {
			return nil, nil, err
		}
		db, err := postgres.Open(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), func(context.Context) error { return db.Close() }, nil

	case config.DriverMemory:
		return memory.NewUserRepository(), func(context.Context) error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
