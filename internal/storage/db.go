package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the stats database, verifies it answers and applies the
// embedded migrations.
func Open(ctx context.Context, driver, dsn string, log *zap.Logger) (*Store, error) {
	var (
		dialector gorm.Dialector
		dialect   goose.Dialect
		sqlDB     *sql.DB
	)

	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
		dialect = goose.DialectSQLite3

	case DriverPostgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		sqlDB = stdlib.OpenDB(*cfg)
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
		dialect = goose.DialectPostgres

	default:
		return nil, fmt.Errorf("unsupported stats driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if sqlDB == nil {
		if sqlDB, err = db.DB(); err != nil {
			return nil, err
		}
	}
	if driver == DriverSQLite {
		// SQLite only supports one writer at a time
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := Migrate(ctx, sqlDB, dialect); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("stats store ready", zap.String("driver", driver))
	return &Store{db: db, sqlDB: sqlDB, log: log}, nil
}

// Migrate applies all embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}
