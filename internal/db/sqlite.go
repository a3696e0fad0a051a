package db

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	path string
	conn *sql.DB
}

func NewSQLite(path string) *SQLite {
	return &SQLite{
		path: path,
		conn: nil,
	}
}

func (s *SQLite) InitDB() error {
	// The pragma is per-connection, so it has to ride on the DSN to cover
	// every pooled connection.
	dsn := s.path
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}

	var err error
	s.conn, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	// Content rows are removed through the cascade when their post goes;
	// the repository never deletes them explicitly on post deletion.
	res, err := s.conn.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT,
    cover_image TEXT,
    author TEXT,
    reading_time TEXT,
    published BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS post_content (
    id TEXT PRIMARY KEY,
    post_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    content TEXT NOT NULL,
    alt TEXT,
    position INTEGER NOT NULL,
    UNIQUE(post_id, position),
    FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE
);`)

	dbLogger.Info().Any("db_result", res).Msg("Database initialized")
	return err
}

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLite) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	dbLogger.Debug().Str("query", query).Msg("Query")
	return s.conn.QueryContext(ctx, query, args...)
}

func (s *SQLite) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.ExecContext(ctx, query, args...)
}

func (s *SQLite) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.conn.BeginTx(ctx, nil)
}
