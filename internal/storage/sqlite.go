package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"

	"github.com/pressly/goose/v3"
	// SQLite driver.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const sqliteDriver = "sqlite"

// SQLiteStore keeps votes in a local append-only table. It is the
// development backend; production deployments record into Sheets.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the vote database at the provided path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "data/votes"
	}
	db, err := sql.Open(sqliteDriver, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(sqliteDriver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	values := url.Values{}
	values.Add("_pragma", "journal_mode(WAL)")
	values.Add("_pragma", "synchronous(NORMAL)")
	values.Add("_pragma", "busy_timeout(5000)")
	return fmt.Sprintf("file:%s.sqlite?%s", path, values.Encode())
}

// Append inserts one vote row.
func (s *SQLiteStore) Append(ctx context.Context, rec VoteRecord) error {
	const q = `INSERT INTO votes (ts, rating, user_id, display_name, username)
VALUES (?, ?, ?, ?, ?);`
	username := rec.Username
	if username == "" {
		username = UsernameNone
	}
	if _, err := s.db.ExecContext(ctx, q, rec.Timestamp, rec.Rating, rec.UserID, rec.DisplayName, username); err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// List returns every recorded vote in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]VoteRecord, error) {
	const q = `SELECT ts, rating, user_id, display_name, username FROM votes ORDER BY id;`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var records []VoteRecord
	for rows.Next() {
		var rec VoteRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Rating, &rec.UserID, &rec.DisplayName, &rec.Username); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
