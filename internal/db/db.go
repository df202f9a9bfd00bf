package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var errNotInitialized = errors.New("database not initialized")

// DB wraps a database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection. DATABASE_URL selects Postgres
// when it is a postgres URL, as does DB_HOST; otherwise preferences live in
// a SQLite file at DB_PATH.
func NewDB() (*DB, error) {
	driver, dsn := dataSource()

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

func dataSource() (driver, dsn string) {
	if dbURL := os.Getenv("DATABASE_URL"); isPostgresURL(dbURL) {
		return "postgres", dbURL
	}
	if os.Getenv("DB_HOST") != "" {
		return "postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnvOrDefault("DB_HOST", "localhost"),
			getEnvOrDefault("DB_PORT", "5432"),
			getEnvOrDefault("DB_USER", "postgres"),
			getEnvOrDefault("DB_PASSWORD", "postgres"),
			getEnvOrDefault("DB_NAME", "weatherwatch"),
		)
	}
	return "sqlite3", getEnvOrDefault("DB_PATH", "weatherwatch.db")
}

func isPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the stored preference for key. ok is false when none is set.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	if d == nil || d.DB == nil {
		return "", false, errNotInitialized
	}

	var value string
	err := d.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(ctx context.Context, key, value string) error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}

	_, err := d.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
