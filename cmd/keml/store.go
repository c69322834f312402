package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/keml-analysis/internal/config"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/Harshitk-cp/keml-analysis/internal/store"
)

// initRunService connects to DATABASE_URL and applies migrations.
func initRunService(ctx context.Context) (*service.RunService, func(), error) {
	dbURL := config.DatabaseURL()
	if dbURL == "" {
		return nil, nil, eris.New("DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, nil, eris.Wrap(err, "connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, eris.Wrap(err, "ping database")
	}
	if err := store.Migrate(ctx, pool, zap.L()); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return service.NewRunService(store.NewRunStore(pool), zap.L()), pool.Close, nil
}
