package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/ports"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	moderncsqlite "modernc.org/sqlite"                   // Local SQLite driver
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	dsn := dbURL
	if driverName == "sqlite" && !isMemoryDSN(dbURL) {
		dsn = withPragmas(dbURL)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" is its own database, and shared cache
	// memory databases report table locks instead of waiting on them.
	if driverName == "sqlite" && isMemoryDSN(dbURL) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		short_id TEXT NOT NULL UNIQUE,
		target_url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		click_count INTEGER NOT NULL DEFAULT 0 CHECK (click_count >= 0),
		created_at INTEGER NOT NULL
	);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Create(ctx context.Context, link *domain.Link) error {
	query := `INSERT INTO urls (short_id, target_url, title, click_count, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, link.ShortID, link.TargetURL, link.Title, link.ClickCount, link.CreatedAt.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShortIDTaken
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	link.ID = id
	return nil
}

// isUniqueViolation recognizes constraint errors from both drivers; libsql only
// gives us the message text.
func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLiteRepository) GetByShortID(ctx context.Context, code string) (*domain.Link, error) {
	query := `SELECT id, short_id, target_url, title, click_count, created_at
			  FROM urls WHERE short_id = ?`

	var link domain.Link
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&link.ID, &link.ShortID, &link.TargetURL, &link.Title, &link.ClickCount, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	link.CreatedAt = time.Unix(0, createdAt).UTC()
	return &link, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT id, short_id, target_url, title, click_count, created_at
			  FROM urls ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		var l domain.Link
		var createdAt int64
		if err := rows.Scan(&l.ID, &l.ShortID, &l.TargetURL, &l.Title, &l.ClickCount, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt = time.Unix(0, createdAt).UTC()
		links = append(links, l)
	}

	return links, rows.Err()
}

func (r *SQLiteRepository) IncrementClicks(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE urls SET click_count = click_count + 1 WHERE short_id = ?`, code)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ensure interface compliance
var _ ports.LinkRepository = (*SQLiteRepository)(nil)
