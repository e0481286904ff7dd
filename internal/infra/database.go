package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPoolMaxConns    = 10
	defaultPoolMaxIdleTime = 5 * time.Minute
	poolHealthCheckPeriod  = 30 * time.Second
)

// PostgresConfig parses a connection URL for the ledger store. Settings given
// in the URL win; otherwise the pool is capped at defaultPoolMaxConns and
// sessions report appName as their application_name.
func PostgresConfig(url, appName string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if !strings.Contains(url, "pool_max_conns") {
		cfg.MaxConns = defaultPoolMaxConns
	}
	if !strings.Contains(url, "pool_max_conn_idle_time") {
		cfg.MaxConnIdleTime = defaultPoolMaxIdleTime
	}
	cfg.HealthCheckPeriod = poolHealthCheckPeriod
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok && appName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = appName
	}
	return cfg, nil
}

// NewPostgresPool opens the pool described by PostgresConfig and checks that
// the server answers.
func NewPostgresPool(ctx context.Context, url, appName string) (*pgxpool.Pool, error) {
	cfg, err := PostgresConfig(url, appName)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := verify(ctx, "postgres", pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
