package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewBookStorage builds the book storage selected by the configuration.
func NewBookStorage(ctx context.Context, logger *zap.Logger, config *StorageConfig) (BookStorage, error) {
	logger = logger.With(zap.String("storage.backend", config.Backend))

	switch config.Backend {
	case MemoryBackend:
		return NewMemoryBookStorage(logger)

	case BoltBackend:
		client, err := GetBoltDBClient(&config.BoltDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to boltDB server: %s", err)
		}
		return NewBoltBookStorage(logger, &config.BoltDB, client), nil

	case RedisBackend:
		client, err := GetRedisClient(&config.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
		return NewRedisBookStorage(logger, client), nil

	case PostgresBackend:
		if config.Postgres.Migrate {
			if err := MigratePostgres(logger, config.Postgres.DSN); err != nil {
				return nil, fmt.Errorf("failed to migrate postgres schema: %s", err)
			}
		}
		pool, err := GetPostgresPool(ctx, &config.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres server: %s", err)
		}
		return NewPostgresBookStorage(logger, pool, config.Postgres.QueryTimeout), nil
	}

	return nil, fmt.Errorf("unsupported storage backend %q", config.Backend)
}
