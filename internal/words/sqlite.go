// internal/words/sqlite.go
//
// SQLite Backend for the accepted-word catalogue.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Implementing Backend on the accepted_words table.
//
// Uniqueness of text is enforced by the table's UNIQUE constraint; constraint
// violations are mapped to apperr.Conflict.

package words

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/gameshub/wordme/internal/apperr"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Backend on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at path and applies
// pending migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	// Ensure directory exists for ./data/wordme.db, etc.
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// migrate applies embedded sql/*.sql files in lexical order, each in its own
// transaction, skipping files already recorded in _migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrationsFS, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name = ?`, f).Scan(&done)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrationsFS.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations (name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (s *SQLiteStore) Insert(ctx context.Context, w Word) (Word, error) {
	w.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accepted_words (id, text, length, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID, w.Text, w.Length, w.CreatedBy, w.CreatedAt.Format(time.RFC3339), w.UpdatedAt.Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return Word{}, apperr.New(apperr.Conflict, "word already exists")
	}
	if err != nil {
		return Word{}, fmt.Errorf("inserting word: %w", err)
	}
	return w, nil
}

func (s *SQLiteStore) Rename(ctx context.Context, id, text string, at time.Time) (Word, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Word{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE accepted_words SET text = ?, length = ?, updated_at = ? WHERE id = ?`,
		text, len(text), at.Format(time.RFC3339), id,
	)
	if isUniqueViolation(err) {
		return Word{}, apperr.New(apperr.Conflict, "word already exists")
	}
	if err != nil {
		return Word{}, fmt.Errorf("updating word: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Word{}, apperr.New(apperr.NotFound, "word not found")
	}

	w, err := scanWord(tx.QueryRowContext(ctx,
		`SELECT id, text, length, created_by, created_at, updated_at FROM accepted_words WHERE id = ?`, id))
	if err != nil {
		return Word{}, fmt.Errorf("reading updated word: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Word{}, fmt.Errorf("commit rename: %w", err)
	}
	return w, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accepted_words WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting word: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "word not found")
	}
	return nil
}

func (s *SQLiteStore) Find(ctx context.Context, length int, prefix string, offset, limit int) ([]Word, int, error) {
	// prefix is folded to A–Z, so it carries no LIKE wildcards.
	pattern := prefix + "%"

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accepted_words WHERE length = ? AND text LIKE ?`, length, pattern,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting words: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, length, created_by, created_at, updated_at
		 FROM accepted_words
		 WHERE length = ? AND text LIKE ?
		 ORDER BY text ASC
		 LIMIT ? OFFSET ?`, length, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing words: %w", err)
	}
	defer rows.Close()

	out := make([]Word, 0, limit)
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, w)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) CountByLength(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT length, COUNT(1) FROM accepted_words GROUP BY length`)
	if err != nil {
		return nil, fmt.Errorf("counting by length: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int, 3)
	for rows.Next() {
		var length, n int
		if err := rows.Scan(&length, &n); err != nil {
			return nil, err
		}
		out[length] = n
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Exists(ctx context.Context, text string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM accepted_words WHERE text = ? LIMIT 1`, text).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up word: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Sample(ctx context.Context, length int) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM accepted_words WHERE length = ? ORDER BY RANDOM() LIMIT 1`, length,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.New(apperr.Unavailable, "no target words available")
	}
	if err != nil {
		return "", fmt.Errorf("sampling word: %w", err)
	}
	return text, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close(context.Context) error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (Word, error) {
	var w Word
	var created, updated string
	if err := row.Scan(&w.ID, &w.Text, &w.Length, &w.CreatedBy, &created, &updated); err != nil {
		return Word{}, err
	}
	w.CreatedAt = mustParse(created)
	w.UpdatedAt = mustParse(updated)
	return w, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
