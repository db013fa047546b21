// internal/puzzles/provider.go
//
// Category providers supply the four categories of a session.
//
// Sources:
//   - Static: puzzles loaded from PUZZLES_FILE or the embedded default set.
//   - SQL:    puzzles stored in SQLite (seeded from the same JSON).
//   - Chat:   puzzles generated by an OpenAI-compatible chat completion endpoint.
//
// Every provider validates its output before returning it; a malformed
// puzzle is an error and no session is created from it.

package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Joker666/nyt-connections-clone/assets"
	"github.com/Joker666/nyt-connections-clone/internal/daily"
	"github.com/Joker666/nyt-connections-clone/internal/game"
)

var (
	ErrInvalidPuzzle = errors.New("invalid puzzle")
	ErrNoPuzzles     = errors.New("no puzzles available")
)

// Provider returns the categories for a new session.
type Provider interface {
	Categories(ctx context.Context) ([]game.Category, error)
}

// Puzzle is one stored set of categories.
type Puzzle struct {
	ID         string          `json:"id" validate:"required"`
	Categories []game.Category `json:"categories" validate:"len=4,unique=Level,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the shape of a category set: four categories with distinct
// levels 1–4, four distinct non-empty words each, and no word shared between
// categories.
func Validate(categories []game.Category) error {
	return ValidatePuzzle(Puzzle{ID: "-", Categories: categories})
}

// ValidatePuzzle is Validate for a whole Puzzle.
func ValidatePuzzle(p Puzzle) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	owner := make(map[string]string, game.CategoryCount*game.GroupSize)
	for _, c := range p.Categories {
		for _, w := range c.Words {
			if prev, dup := owner[w]; dup {
				return fmt.Errorf("%w: %q is in both %q and %q", ErrInvalidPuzzle, w, prev, c.Pattern)
			}
			owner[w] = c.Pattern
		}
	}
	return nil
}

// Chooser picks an index in [0, n).
type Chooser func(n int) int

// RandomChoice picks uniformly.
func RandomChoice(n int) int { return rand.Intn(n) }

// DailyChoice picks the same index for the whole UTC day.
func DailyChoice(salt string, now func() time.Time) Chooser {
	if now == nil {
		now = time.Now
	}
	return func(n int) int { return daily.Index(now(), salt, n) }
}

// Embedded returns the default puzzle set compiled into the binary.
func Embedded() ([]Puzzle, error) {
	return decode(assets.Puzzles)
}

// LoadFile reads a JSON array of puzzles.
func LoadFile(path string) ([]Puzzle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read puzzles: %w", err)
	}
	return decode(b)
}

func decode(b []byte) ([]Puzzle, error) {
	var out []Puzzle
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	for _, p := range out {
		if err := ValidatePuzzle(p); err != nil {
			return nil, fmt.Errorf("puzzle %q: %w", p.ID, err)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPuzzles
	}
	return out, nil
}
