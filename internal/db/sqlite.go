package db

import (
	"database/sql"
	"errors"
	"log"
	"os"
	"path/filepath"

	"backend-ridetrack/internal/config"

	_ "modernc.org/sqlite"
)

// ConnectSQLite opens the local ride database, creating its directory when
// needed.
func ConnectSQLite(cfg config.Config) (*sql.DB, error) {
	if cfg.SQLitePath == "" {
		return nil, errors.New("sqlite path required")
	}
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("sqlite ride store opened: %s", cfg.SQLitePath)
	return conn, nil
}
