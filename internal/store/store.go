// Package store handles SQLite persistence of finished games.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obaydah/miftah/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for game history.
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
		// Best-effort close on migration failure.
		_ = db.Close()
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
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			words INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			typed_chars INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			finish_cause TEXT NOT NULL,
			submitted INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_games_wpm ON games(wpm);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a completed game.
func (s *Store) InsertGame(ctx context.Context, rec model.GameRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (session_id, started_at, ended_at, lang, words, wpm, accuracy, correct_chars, typed_chars, duration_ms, finish_cause, submitted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Lang,
		rec.Words,
		rec.WPM,
		rec.Accuracy,
		rec.CorrectChars,
		rec.TypedChars,
		rec.DurationMs,
		rec.FinishCause,
		boolToInt(rec.Submitted),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// MarkSubmitted flags a game as reported to the leaderboard.
func (s *Store) MarkSubmitted(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE games SET submitted = 1 WHERE session_id = ?`, sessionID)
	return err
}

// BestWPM returns the highest recorded WPM for a language ("" matches all).
// ok is false when no games are stored.
func (s *Store) BestWPM(ctx context.Context, lang string) (best int, ok bool, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT MAX(wpm) FROM games WHERE (? = '' OR lang = ?)`, lang, lang)
	var top sql.NullInt64
	if err := row.Scan(&top); err != nil {
		return 0, false, err
	}
	if !top.Valid {
		return 0, false, nil
	}
	return int(top.Int64), true, nil
}

// ListGames returns game aggregates filtered by history config, oldest first.
func (s *Store) ListGames(ctx context.Context, cfg model.HistoryConfig) ([]model.GameAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, lang, wpm, accuracy, duration_ms, finish_cause
		FROM games
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best-effort rows close.
		_ = rows.Close()
	}()

	var games []model.GameAggregate
	for rows.Next() {
		var agg model.GameAggregate
		var endedAt string
		if err := rows.Scan(&agg.GameID, &endedAt, &agg.Lang, &agg.WPM, &agg.Accuracy, &agg.DurationMs, &agg.Cause); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		games = append(games, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(games) > cfg.Last {
		games = games[len(games)-cfg.Last:]
	}
	return games, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
