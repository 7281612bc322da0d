// Package history persists per-ebook reading state across sessions.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Record is one reading-history row, keyed by ebook file path.
type Record struct {
	Filepath string
	LastRead time.Time
	Title    string
	Author   string
	Progress float64
}

// PersistenceError wraps a failed history read or write. The reading
// session continues with in-memory progress when one occurs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "history " + e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

const schema = `
CREATE TABLE IF NOT EXISTS reading_history (
	filepath         TEXT PRIMARY KEY,
	last_read        INTEGER NOT NULL,
	title            TEXT NOT NULL DEFAULT '',
	author           TEXT NOT NULL DEFAULT '',
	reading_progress REAL NOT NULL DEFAULT 0
);`

// Store owns the history database for one session. Two concurrent
// sessions on the same file have last-writer-wins semantics; no
// cross-process coordination is attempted. Methods are not safe for
// concurrent use within a session either; all calls happen on the owning
// event loop.
type Store struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens the history database at path, creating it and its schema if
// needed. The special path ":memory:" keeps the store in memory.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenMemory}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		conn.Close()
		return nil, &PersistenceError{Op: "migrate", Err: err}
	}
	return &Store{conn: conn, log: log}, nil
}

func (s *Store) Close() error {
	if err := s.conn.Close(); err != nil {
		return &PersistenceError{Op: "close", Err: err}
	}
	return nil
}

// GetOrCreate returns the record for filepath, inserting a fresh row with
// zero progress first if none exists. The insert is persisted immediately
// so a crash before the first save still leaves a row.
func (s *Store) GetOrCreate(path string) (Record, error) {
	err := sqlitex.Execute(s.conn,
		`INSERT INTO reading_history (filepath, last_read, reading_progress)
		 VALUES (?, ?, 0) ON CONFLICT (filepath) DO NOTHING;`,
		&sqlitex.ExecOptions{Args: []any{path, time.Now().Unix()}})
	if err != nil {
		return Record{}, &PersistenceError{Op: "create", Err: err}
	}
	rec, found, err := s.lookup(path)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, &PersistenceError{Op: "fetch", Err: fmt.Errorf("row for %q missing after insert", path)}
	}
	return rec, nil
}

// Save upserts the record on its file path, overwriting last_read, title,
// author and progress.
func (s *Store) Save(rec Record) error {
	err := sqlitex.Execute(s.conn,
		`INSERT INTO reading_history (filepath, last_read, title, author, reading_progress)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (filepath) DO UPDATE SET
			last_read        = excluded.last_read,
			title            = excluded.title,
			author           = excluded.author,
			reading_progress = excluded.reading_progress;`,
		&sqlitex.ExecOptions{Args: []any{
			rec.Filepath, rec.LastRead.Unix(), rec.Title, rec.Author, rec.Progress,
		}})
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	s.log.Debug("history saved",
		zap.String("path", rec.Filepath),
		zap.Float64("progress", rec.Progress))
	return nil
}

// ListAll returns every record ordered by last_read descending.
func (s *Store) ListAll() ([]Record, error) {
	var recs []Record
	err := sqlitex.Execute(s.conn,
		selectCols+` ORDER BY last_read DESC, filepath ASC;`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			recs = append(recs, recordFromRow(stmt))
			return nil
		}})
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return recs, nil
}

// MostRecent returns the most recently read record, or nil when the
// history is empty.
func (s *Store) MostRecent() (*Record, error) {
	return s.selectOne(selectCols+` ORDER BY last_read DESC, filepath ASC LIMIT 1;`, nil)
}

// Nth returns the n-th record counting from the most recent, 1-based, or
// nil when the history is shorter than n.
func (s *Store) Nth(n int) (*Record, error) {
	if n < 1 {
		return nil, nil
	}
	return s.selectOne(
		selectCols+` ORDER BY last_read DESC, filepath ASC LIMIT 1 OFFSET ?;`,
		[]any{n - 1})
}

// FindBestMatch returns the record whose title, author or path contains
// every whitespace-separated word of pattern, case-insensitively. Ties go
// to the most recently read record.
func (s *Store) FindBestMatch(pattern string) (*Record, error) {
	words := strings.Fields(pattern)
	if len(words) == 0 {
		return nil, nil
	}
	conds := make([]string, 0, len(words))
	args := make([]any, 0, len(words))
	for _, w := range words {
		conds = append(conds, `(title || ' ' || author || ' ' || filepath) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(w)+"%")
	}
	query := selectCols + ` WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY last_read DESC, filepath ASC LIMIT 1;`
	return s.selectOne(query, args)
}

const selectCols = `SELECT filepath, last_read, title, author, reading_progress FROM reading_history`

func (s *Store) selectOne(query string, args []any) (*Record, error) {
	var rec *Record
	err := sqlitex.Execute(s.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			r := recordFromRow(stmt)
			rec = &r
			return nil
		},
	})
	if err != nil {
		return nil, &PersistenceError{Op: "query", Err: err}
	}
	return rec, nil
}

func (s *Store) lookup(path string) (Record, bool, error) {
	rec, err := s.selectOne(selectCols+` WHERE filepath = ?;`, []any{path})
	if err != nil {
		return Record{}, false, err
	}
	if rec == nil {
		return Record{}, false, nil
	}
	return *rec, true, nil
}

func recordFromRow(stmt *sqlite.Stmt) Record {
	return Record{
		Filepath: stmt.ColumnText(0),
		LastRead: time.Unix(stmt.ColumnInt64(1), 0),
		Title:    stmt.ColumnText(2),
		Author:   stmt.ColumnText(3),
		Progress: stmt.ColumnFloat(4),
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
