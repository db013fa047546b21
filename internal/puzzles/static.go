// internal/puzzles/static.go
//
// In-memory puzzle source. Serves a fixed set of puzzles (the embedded
// defaults or PUZZLES_FILE) and lets a Chooser pick one per round.

package puzzles

import (
	"context"

	"github.com/Joker666/nyt-connections-clone/internal/game"
)

// Static serves puzzles held in memory.
type Static struct {
	puzzles []Puzzle
	choose  Chooser
}

// NewStatic validates the puzzles up front. A nil chooser means RandomChoice.
func NewStatic(puzzles []Puzzle, choose Chooser) (*Static, error) {
	if len(puzzles) == 0 {
		return nil, ErrNoPuzzles
	}
	for _, p := range puzzles {
		if err := ValidatePuzzle(p); err != nil {
			return nil, err
		}
	}
	if choose == nil {
		choose = RandomChoice
	}
	return &Static{puzzles: puzzles, choose: choose}, nil
}

// Categories returns a copy of the chosen puzzle's categories.
func (s *Static) Categories(ctx context.Context) ([]game.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := s.puzzles[s.choose(len(s.puzzles))]
	out := make([]game.Category, len(p.Categories))
	for i, c := range p.Categories {
		c.Words = append([]string(nil), c.Words...)
		out[i] = c
	}
	return out, nil
}

// Len reports the number of puzzles.
func (s *Static) Len() int { return len(s.puzzles) }
