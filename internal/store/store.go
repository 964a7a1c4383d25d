// Package store handles SQLite persistence of lifetime statistics.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/mgorbunov/plately/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for lifetime stats.
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
		`CREATE TABLE IF NOT EXISTS lifetime (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			games_played INTEGER NOT NULL,
			total_score INTEGER NOT NULL,
			best_score INTEGER NOT NULL,
			best_combo INTEGER NOT NULL,
			best_multiplier REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS plates_seen (
			letters TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS plate_best (
			letters TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			rarest_word TEXT NOT NULL,
			previous_best INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS score_history (
			id INTEGER PRIMARY KEY,
			played_at TEXT NOT NULL,
			letters TEXT NOT NULL,
			score INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rare_words (
			tier TEXT NOT NULL,
			word TEXT NOT NULL,
			PRIMARY KEY (tier, word)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_score_history_played_at ON score_history(played_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadLifetimeStats reads the persisted stats. A fresh database yields empty
// stats, not an error.
func (s *Store) LoadLifetimeStats(ctx context.Context) (*model.LifetimeStats, error) {
	stats := model.NewLifetimeStats()

	row := s.db.QueryRowContext(ctx,
		`SELECT games_played, total_score, best_score, best_combo, best_multiplier
		 FROM lifetime WHERE id = 1`)
	err := row.Scan(&stats.GamesPlayed, &stats.TotalScore, &stats.BestScore, &stats.BestCombo, &stats.BestMultiplier)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if err := s.loadPlatesSeen(ctx, stats); err != nil {
		return nil, err
	}
	if err := s.loadPlateBests(ctx, stats); err != nil {
		return nil, err
	}
	if err := s.loadScoreHistory(ctx, stats); err != nil {
		return nil, err
	}
	if err := s.loadRareWords(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SaveLifetimeStats writes the full stats in one transaction. The score
// history is append-only, so existing rows are replaced wholesale to keep
// the table in step with the in-memory sequence.
func (s *Store) SaveLifetimeStats(ctx context.Context, stats *model.LifetimeStats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO lifetime (id, games_played, total_score, best_score, best_combo, best_multiplier)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			games_played = excluded.games_played,
			total_score = excluded.total_score,
			best_score = excluded.best_score,
			best_combo = excluded.best_combo,
			best_multiplier = excluded.best_multiplier`,
		stats.GamesPlayed, stats.TotalScore, stats.BestScore, stats.BestCombo, stats.BestMultiplier,
	); err != nil {
		return err
	}

	for letters := range stats.UniquePlates {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO plates_seen (letters) VALUES (?)`, letters); err != nil {
			return err
		}
	}

	for letters, best := range stats.PerPlateBest {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO plate_best (letters, score, rarest_word, previous_best)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(letters) DO UPDATE SET
				score = excluded.score,
				rarest_word = excluded.rarest_word,
				previous_best = excluded.previous_best
			 WHERE excluded.score >= plate_best.score`,
			letters, best.Score, best.RarestWord, best.PreviousBest,
		); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM score_history`); err != nil {
		return err
	}
	for _, rec := range stats.ScoreHistory {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO score_history (played_at, letters, score) VALUES (?, ?, ?)`,
			rec.PlayedAt.Format(time.RFC3339Nano), rec.Letters, rec.Score,
		); err != nil {
			return err
		}
	}

	for tier, words := range stats.RareWordsByTier {
		for _, word := range words {
			if _, err = tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO rare_words (tier, word) VALUES (?, ?)`,
				tier.Key(), word,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *Store) loadPlatesSeen(ctx context.Context, stats *model.LifetimeStats) error {
	rows, err := s.db.QueryContext(ctx, `SELECT letters FROM plates_seen`)
	if err != nil {
		return err
	}
	defer closeRows(rows)
	for rows.Next() {
		var letters string
		if err := rows.Scan(&letters); err != nil {
			return err
		}
		stats.UniquePlates[letters] = struct{}{}
	}
	return rows.Err()
}

func (s *Store) loadPlateBests(ctx context.Context, stats *model.LifetimeStats) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT letters, score, rarest_word, previous_best FROM plate_best`)
	if err != nil {
		return err
	}
	defer closeRows(rows)
	for rows.Next() {
		var letters string
		var best model.PlateBest
		if err := rows.Scan(&letters, &best.Score, &best.RarestWord, &best.PreviousBest); err != nil {
			return err
		}
		stats.PerPlateBest[letters] = best
	}
	return rows.Err()
}

func (s *Store) loadScoreHistory(ctx context.Context, stats *model.LifetimeStats) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT played_at, letters, score FROM score_history ORDER BY id ASC`)
	if err != nil {
		return err
	}
	defer closeRows(rows)
	for rows.Next() {
		var playedAt string
		var rec model.ScoreRecord
		if err := rows.Scan(&playedAt, &rec.Letters, &rec.Score); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return err
		}
		rec.PlayedAt = parsed
		stats.ScoreHistory = append(stats.ScoreHistory, rec)
	}
	return rows.Err()
}

func (s *Store) loadRareWords(ctx context.Context, stats *model.LifetimeStats) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tier, word FROM rare_words ORDER BY word ASC`)
	if err != nil {
		return err
	}
	defer closeRows(rows)
	for rows.Next() {
		var tierKey, word string
		if err := rows.Scan(&tierKey, &word); err != nil {
			return err
		}
		tier := model.TierFromKey(tierKey)
		stats.RareWordsByTier[tier] = append(stats.RareWordsByTier[tier], word)
	}
	return rows.Err()
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
