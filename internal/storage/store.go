package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"ongfinanzas/internal/log"
)

// Dialect names the relational engine behind a Store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// IsValid returns true if the dialect is supported
func (d Dialect) IsValid() bool {
	return d == SQLite || d == Postgres
}

// driverName maps a dialect to its database/sql driver.
func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

type Config struct {
	Dialect      Dialect
	SQLitePath   string
	DatabaseURL  string
	MaxOpenConns int
	BusyTimeout  time.Duration
}

// Store is the persistence capability of the ledger. Queries return rows,
// commands return a core.Outcome produced inside a single transaction.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open connects to the configured database and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Dialect.IsValid() {
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Dialect, err)
	}
	if cfg.Dialect == SQLite {
		// One writer at a time; avoids SQLITE_BUSY inside transactions.
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(cfg.Dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).InfoContext(ctx, "Database ready",
		log.FieldOperation, log.OpStartup, "dialect", cfg.Dialect)
	return &Store{db: db, dialect: cfg.Dialect}, nil
}

func (c Config) dsn() (string, error) {
	switch c.Dialect {
	case Postgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return "", errors.New("database URL required for postgres")
		}
		return c.DatabaseURL, nil
	default:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return "", errors.New("sqlite path required")
		}
		abs, err := filepath.Abs(c.SQLitePath)
		if err != nil {
			return "", fmt.Errorf("resolve sqlite path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return "", fmt.Errorf("create db directory: %w", err)
		}
		busy := int(c.BusyTimeout / time.Millisecond)
		if busy <= 0 {
			busy = 5000
		}
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy), nil
	}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) selectRows(ctx context.Context, dest any, query string, args ...any) error {
	return s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...)
}

// getRow scans one row into dest and maps sql.ErrNoRows to core.ErrNotFound.
func (s *Store) getRow(ctx context.Context, dest any, query string, args ...any) error {
	err := s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	return err
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
