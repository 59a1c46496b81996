// Package history persists successful command mappings, rejections, and
// aliases in a SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// ErrUnavailable is returned by every operation when the database could not
// be opened. Callers treat it as a signal to disable history features for
// the session, never as a fatal condition.
var ErrUnavailable = errors.New("history store unavailable")

// SQLiteStore implements the HistoryRepository port.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path, defaulting to
// ~/.haunted/history.db. Open failures are not fatal: the store stays usable
// and reports ErrUnavailable per operation.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(userHome(), ".haunted", "history.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

// Disabled returns a store that reports unavailable for everything, for
// configurations that turn history off.
func Disabled() *SQLiteStore {
	return &SQLiteStore{}
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return ErrUnavailable
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS command_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_text TEXT NOT NULL,
		command TEXT NOT NULL,
		working_dir TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_request_text ON command_history(request_text);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON command_history(timestamp DESC);
	CREATE TABLE IF NOT EXISTS rejected_commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_text TEXT NOT NULL,
		command TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS aliases (
		name TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`)
	return err
}

// Available reports whether the backing database opened successfully.
func (s *SQLiteStore) Available() bool {
	return s.db != nil
}

// SaveCommand inserts a successful mapping. Records with a non-zero exit
// code are refused: history only ever holds positive examples.
func (s *SQLiteStore) SaveCommand(record domain.HistoryRecord) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if record.ExitCode != 0 {
		return errors.New("refusing to store failed command as history")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO command_history
		(request_text, command, working_dir, exit_code, timestamp, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.RequestText,
		record.Command,
		record.WorkingDir,
		record.ExitCode,
		record.Timestamp.Format(domain.TimestampFormat),
		record.Elapsed.Milliseconds(),
	)
	return err
}

// RecordRejection inserts a rejected/failed mapping.
func (s *SQLiteStore) RecordRejection(record domain.RejectionRecord) error {
	if s.db == nil {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO rejected_commands (request_text, command, timestamp)
		VALUES (?, ?, ?)`,
		record.RequestText,
		record.Command,
		record.Timestamp.Format(domain.TimestampFormat),
	)
	return err
}

// ClearRejections deletes every rejection for the exact request text.
// Deleting zero rows succeeds.
func (s *SQLiteStore) ClearRejections(requestText string) error {
	if s.db == nil {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM rejected_commands WHERE request_text = ?`, requestText)
	return err
}

// Rejections returns the most recent rejected commands for the request text.
func (s *SQLiteStore) Rejections(requestText string, limit int) ([]string, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.Query(`SELECT command FROM rejected_commands
		WHERE request_text = ?
		ORDER BY datetime(timestamp) DESC
		LIMIT ?`, requestText, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var commands []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, rows.Err()
}

// Recent returns history entries, newest first. A non-positive limit
// returns everything.
func (s *SQLiteStore) Recent(limit int) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	if limit <= 0 {
		limit = -1
	}
	return s.queryRecords(`SELECT id, request_text, command, working_dir, exit_code, timestamp, elapsed_ms, 1
		FROM command_history
		ORDER BY datetime(timestamp) DESC
		LIMIT ?`, limit)
}

// Similar returns entries whose request text contains the given text,
// grouped by command with frequency and last-use ordering.
func (s *SQLiteStore) Similar(text string, limit int) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	return s.queryRecords(`SELECT id, request_text, command, working_dir, exit_code,
			MAX(timestamp), elapsed_ms, COUNT(*) as frequency
		FROM command_history
		WHERE request_text LIKE ?
		GROUP BY request_text, command
		ORDER BY frequency DESC, MAX(datetime(timestamp)) DESC
		LIMIT ?`, "%"+text+"%", limit)
}

// FrequentInDir returns the commands most often run from dir.
func (s *SQLiteStore) FrequentInDir(dir string, limit int) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	return s.queryRecords(`SELECT id, request_text, command, working_dir, exit_code,
			MAX(timestamp), elapsed_ms, COUNT(*) as frequency
		FROM command_history
		WHERE working_dir = ?
		GROUP BY request_text, command
		ORDER BY frequency DESC, MAX(datetime(timestamp)) DESC
		LIMIT ?`, dir, limit)
}

func (s *SQLiteStore) queryRecords(query string, args ...interface{}) ([]domain.HistoryRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts string
		var elapsedMS int64
		if err := rows.Scan(&rec.ID, &rec.RequestText, &rec.Command, &rec.WorkingDir,
			&rec.ExitCode, &ts, &elapsedMS, &rec.Frequency); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Alias returns the command mapped to name, if any.
func (s *SQLiteStore) Alias(name string) (string, bool) {
	if s.db == nil {
		return "", false
	}
	var command string
	err := s.db.QueryRow(`SELECT command FROM aliases WHERE name = ?`, name).Scan(&command)
	if err != nil {
		return "", false
	}
	return command, true
}

// SaveAlias adds or replaces an alias.
func (s *SQLiteStore) SaveAlias(name, command string) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(command) == "" {
		return errors.New("alias name and command are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO aliases (name, command, created_at) VALUES (?, ?, ?)`,
		name, command, time.Now().Format(domain.TimestampFormat))
	return err
}

// RemoveAlias deletes an alias, reporting whether it existed.
func (s *SQLiteStore) RemoveAlias(name string) (bool, error) {
	if s.db == nil {
		return false, ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM aliases WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Aliases lists all aliases by name.
func (s *SQLiteStore) Aliases() ([]domain.Alias, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.Query(`SELECT name, command, created_at FROM aliases ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var aliases []domain.Alias
	for rows.Next() {
		var a domain.Alias
		var ts string
		if err := rows.Scan(&a.Name, &a.Command, &ts); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			a.CreatedAt = t
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

// Clear deletes all history and rejection entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM command_history`); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM rejected_commands`)
	return err
}

// ExportJSON writes the history table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Recent(0)
	if err != nil && !errors.Is(err, ErrUnavailable) {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
