// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/zigen/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSnapshot is returned when no saved session exists.
var ErrNoSnapshot = errors.New("store: no saved session")

const snapshotKey = "current"

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			session_uuid TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			radical_file TEXT NOT NULL,
			practice_mode TEXT NOT NULL,
			order_mode TEXT NOT NULL,
			penalty INTEGER NOT NULL,
			min_practice INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_radical_stats (
			session_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			code TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, text)
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			session_uuid TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			payload TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_radical_stats_text ON session_radical_stats(text);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its per-radical stats.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, radicals []model.RadicalStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (session_uuid, started_at, ended_at, radical_file, practice_mode, order_mode, penalty, min_practice, correct, wrong, completed, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.SessionID,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.RadicalFile,
		stats.PracticeMode.String(),
		stats.Order.String(),
		stats.Penalty,
		stats.MinPractice,
		stats.Correct,
		stats.Wrong,
		boolToInt(stats.Completed),
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(radicals) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_radical_stats (session_id, text, code, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, rs := range radicals {
			if _, err := stmt.ExecContext(ctx, id, rs.Text, rs.Code, rs.Correct, rs.Incorrect, rs.LatencySumMs, rs.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// SaveSnapshot replaces the saved session with snap.
func (s *Store) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, session_uuid, saved_at, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET session_uuid = excluded.session_uuid, saved_at = excluded.saved_at, payload = excluded.payload`,
		snapshotKey,
		snap.SessionID,
		snap.SavedAt.Format(time.RFC3339Nano),
		string(payload),
	)
	return err
}

// LoadSnapshot returns the saved session or ErrNoSnapshot.
func (s *Store) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, snapshotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return model.Snapshot{}, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// DeleteSnapshot removes the saved session, if any.
func (s *Store) DeleteSnapshot(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, snapshotKey)
	return err
}

// GetWeakRadicals aggregates radical stats over the most recent sessions.
func (s *Store) GetWeakRadicals(ctx context.Context, window int) ([]model.RadicalAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT rs.text, MAX(rs.code), SUM(rs.correct), SUM(rs.incorrect),
		SUM(rs.latency_sum_ms), SUM(rs.latency_count)
	FROM session_radical_stats rs
	JOIN recent_sessions r ON r.id = rs.session_id
	GROUP BY rs.text`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	return scanAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, session_uuid, ended_at, correct, wrong, completed, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var completed int
		if err := rows.Scan(&agg.ID, &agg.SessionID, &endedAt, &agg.Correct, &agg.Wrong, &completed, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Completed = completed != 0
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListRadicalAggregatesForSessions aggregates per-radical stats across sessions.
func (s *Store) ListRadicalAggregatesForSessions(ctx context.Context, ids []int64) ([]model.RadicalAggregate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	query := fmt.Sprintf(`SELECT text, MAX(code), SUM(correct), SUM(incorrect),
		SUM(latency_sum_ms), SUM(latency_count)
		FROM session_radical_stats
		WHERE session_id IN (%s)
		GROUP BY text`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanAggregates(rows)
}

// ListRadicalStatsForSessions returns per-session stats for selected radicals.
func (s *Store) ListRadicalStatsForSessions(ctx context.Context, ids []int64, texts []string) (map[int64]map[string]model.RadicalAggregate, error) {
	result := map[int64]map[string]model.RadicalAggregate{}
	if len(ids) == 0 || len(texts) == 0 {
		return result, nil
	}
	idPlaceholders, args := inClause(ids)
	textPlaceholders := make([]string, len(texts))
	for i, text := range texts {
		textPlaceholders[i] = "?"
		args = append(args, text)
	}
	query := fmt.Sprintf(`SELECT session_id, text, code, correct, incorrect, latency_sum_ms, latency_count
		FROM session_radical_stats
		WHERE session_id IN (%s) AND text IN (%s)`, idPlaceholders, strings.Join(textPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	for rows.Next() {
		var sessionID int64
		var agg model.RadicalAggregate
		if err := rows.Scan(&sessionID, &agg.Text, &agg.Code, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.RadicalAggregate{}
		}
		result[sessionID][agg.Text] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanAggregates(rows *sql.Rows) ([]model.RadicalAggregate, error) {
	defer closeRows(rows)
	var result []model.RadicalAggregate
	for rows.Next() {
		var agg model.RadicalAggregate
		if err := rows.Scan(&agg.Text, &agg.Code, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return strings.Join(placeholders, ","), args
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
