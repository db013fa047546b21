// internal/puzzles/sql.go
//
// SQLite puzzle source. Seeds the puzzles table from a puzzle set, picks a
// row per round with the configured Chooser and records each play.

package puzzles

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Joker666/nyt-connections-clone/internal/game"
)

// SQL serves puzzles stored in the puzzles/categories tables.
type SQL struct {
	db     *sql.DB
	choose Chooser
}

// NewSQL wraps a migrated database. A nil chooser means RandomChoice.
func NewSQL(db *sql.DB, choose Chooser) *SQL {
	if choose == nil {
		choose = RandomChoice
	}
	return &SQL{db: db, choose: choose}
}

// Seed inserts puzzles that are not stored yet. Existing ids are left untouched.
func (s *SQL) Seed(ctx context.Context, puzzles []Puzzle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range puzzles {
		if err := ValidatePuzzle(p); err != nil {
			return fmt.Errorf("seed %q: %w", p.ID, err)
		}
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO puzzles (id) VALUES (?)`, p.ID)
		if err != nil {
			return fmt.Errorf("insert puzzle %q: %w", p.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		for i, c := range p.Categories {
			words, err := json.Marshal(c.Words)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO categories (puzzle_id, position, pattern, level, words) VALUES (?,?,?,?,?)`,
				p.ID, i, c.Pattern, c.Level, string(words)); err != nil {
				return fmt.Errorf("insert category %q/%d: %w", p.ID, i, err)
			}
		}
		log.Debug().Str("puzzle", p.ID).Msg("seeded")
	}
	return tx.Commit()
}

// Count returns the number of stored puzzles.
func (s *SQL) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM puzzles`).Scan(&n)
	return n, err
}

// Categories picks a puzzle, loads it and records that it was served.
func (s *SQL) Categories(ctx context.Context) ([]game.Category, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count puzzles: %w", err)
	}
	if n == 0 {
		return nil, ErrNoPuzzles
	}

	var id string
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM puzzles ORDER BY id LIMIT 1 OFFSET ?`, s.choose(n)).Scan(&id); err != nil {
		return nil, fmt.Errorf("pick puzzle: %w", err)
	}

	p, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO plays (puzzle_id, served_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Str("puzzle", id).Msg("record play")
	}
	return p.Categories, nil
}

// Load reads one puzzle by id and validates it.
func (s *SQL) Load(ctx context.Context, id string) (Puzzle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pattern, level, words FROM categories WHERE puzzle_id=? ORDER BY position`, id)
	if err != nil {
		return Puzzle{}, fmt.Errorf("load puzzle %q: %w", id, err)
	}
	defer rows.Close()

	p := Puzzle{ID: id}
	for rows.Next() {
		var c game.Category
		var words string
		if err := rows.Scan(&c.Pattern, &c.Level, &words); err != nil {
			return Puzzle{}, err
		}
		if err := json.Unmarshal([]byte(words), &c.Words); err != nil {
			return Puzzle{}, fmt.Errorf("%w: puzzle %q: %v", ErrInvalidPuzzle, id, err)
		}
		p.Categories = append(p.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return Puzzle{}, err
	}
	if err := ValidatePuzzle(p); err != nil {
		return Puzzle{}, fmt.Errorf("puzzle %q: %w", id, err)
	}
	return p, nil
}

// Plays returns how many times a puzzle has been served.
func (s *SQL) Plays(ctx context.Context, id string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM plays WHERE puzzle_id=?`, id).Scan(&n)
	return n, err
}
