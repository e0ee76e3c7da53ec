package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"

	"github.com/recipebox/recipebox/config"
	"github.com/recipebox/recipebox/database/models"
	"github.com/recipebox/recipebox/logger"
)

const (
	defaultConnTimeout = 5 * time.Second
	defaultMaxRetries  = 3
	retryInterval      = time.Second
)

type DB struct {
	pool  *pgxpool.Pool // nil for the sqlite driver
	bunDB *bun.DB
}

// New opens the configured database and verifies connectivity.
func New(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return newSQLite(ctx, cfg.Path)
	case "postgres":
		return newPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
}

func newPostgres(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&connect_timeout=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		int(defaultConnTimeout.Seconds()),
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for i := 0; ; i++ {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		if i+1 >= defaultMaxRetries {
			pool.Close()
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", defaultMaxRetries, err)
		}
		time.Sleep(retryInterval)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return wrap(pool, bun.NewDB(sqldb, pgdialect.New())), nil
}

func newSQLite(ctx context.Context, path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent transactions.
	sqldb.SetMaxOpenConns(1)
	if _, err := sqldb.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return wrap(nil, bun.NewDB(sqldb, sqlitedialect.New())), nil
}

func wrap(pool *pgxpool.Pool, bunDB *bun.DB) *DB {
	// Join tables must be registered before any m2m relation query runs.
	bunDB.RegisterModel(
		(*models.RecipeTag)(nil),
		(*models.RecipeIngredient)(nil),
	)
	return &DB{pool: pool, bunDB: bunDB}
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		return db.pool.Ping(ctx)
	}
	return db.bunDB.PingContext(ctx)
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	_ = db.bunDB.Close()
}

// ExecWithLog runs a raw statement and logs it with timing.
func (db *DB) ExecWithLog(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.bunDB.ExecContext(ctx, query, args...)
	logger.LogQuery(query, time.Since(start), err)
	return res, err
}

// InitSchema creates all application tables and indexes.
func (db *DB) InitSchema(ctx context.Context) error {
	tables := []any{
		(*models.User)(nil),
		(*models.AuthToken)(nil),
		(*models.Tag)(nil),
		(*models.Ingredient)(nil),
		(*models.Recipe)(nil),
		(*models.RecipeTag)(nil),
		(*models.RecipeIngredient)(nil),
	}

	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_auth_tokens_user_id ON auth_tokens(user_id);",
		// (user_id, name) is the dedup key for get-or-create; unique so a
		// concurrent create collapses to the existing row.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_user_name ON tags(user_id, name);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_ingredients_user_name ON ingredients(user_id, name);",
		"CREATE INDEX IF NOT EXISTS idx_recipes_user_id ON recipes(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag_id ON recipe_tags(tag_id);",
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ingredient_id ON recipe_ingredients(ingredient_id);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
