package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. dbType is "sqlite"
// or "postgres"; dsn is the file path for sqlite and the connection
// string for postgres.
func Connect(dbType, dsn string) error {
	switch dbType {
	case "sqlite":
		return connectSQLite(dsn)
	case "postgres":
		return connectPostgres(dsn)
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func connectSQLite(path string) error {
	// Create the data directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	// _loc=UTC keeps stored timestamps comparable regardless of server locale
	db, err := sqlx.Connect("sqlite3", path+"?_loc=UTC")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys so collection deletes cascade to review tasks
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

func connectPostgres(dsn string) error {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	timestampType := "TIMESTAMP"
	if DB.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
		timestampType = "TIMESTAMPTZ"
	}

	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s,
			email TEXT NOT NULL UNIQUE,
			telegram_chat_id BIGINT DEFAULT 0,
			created_at %s DEFAULT CURRENT_TIMESTAMP,
			updated_at %s DEFAULT CURRENT_TIMESTAMP
		)`, idColumn, timestampType, timestampType),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS collections (
			id %s,
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			created_at %s DEFAULT CURRENT_TIMESTAMP,
			updated_at %s DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(user_id, name)
		)`, idColumn, timestampType, timestampType),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			collection_id BIGINT NOT NULL,
			word TEXT NOT NULL,
			translation TEXT NOT NULL,
			example TEXT DEFAULT '',
			created_at %s DEFAULT CURRENT_TIMESTAMP,
			updated_at %s DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE
		)`, idColumn, timestampType, timestampType),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS review_tasks (
			id %s,
			collection_id BIGINT NOT NULL UNIQUE,
			interval_index INTEGER NOT NULL DEFAULT 0,
			next_review %s NOT NULL,
			last_reviewed %s NOT NULL,
			review_count INTEGER NOT NULL DEFAULT 0,
			created_at %s DEFAULT CURRENT_TIMESTAMP,
			updated_at %s DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE
		)`, idColumn, timestampType, timestampType, timestampType, timestampType),
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
