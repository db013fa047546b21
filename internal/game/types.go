// internal/game/types.go
//
// Core type definitions for the Connections game engine.
// Defines:
//   - Result: classification of a submitted guess.
//   - Category: one hidden group of four words.
//   - Item: a word still on the board.
//   - State: a read-only snapshot of a round for rendering.

package game

import "errors"

// Result is the classification of a submitted guess.
type Result string

const (
	ResultSame      Result = "same"
	ResultCorrect   Result = "correct"
	ResultOneAway   Result = "one-away"
	ResultIncorrect Result = "incorrect"
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
)

// Ends reports whether r starts an end sequence.
func (r Result) Ends() bool { return r == ResultWin || r == ResultLoss }

const (
	// GroupSize is the number of words per category and per guess.
	GroupSize = 4
	// CategoryCount is the number of categories in a puzzle.
	CategoryCount = 4
	// MaxMistakes is the mistake budget a session starts with.
	MaxMistakes = 4
)

var (
	ErrGameOver      = errors.New("game over")
	ErrSelectionSize = errors.New("exactly four words must be selected")
	ErrNotFinishing  = errors.New("no end sequence pending")
)

// Category is one hidden group. Level is the difficulty, 1 (easiest) to 4.
type Category struct {
	Pattern string   `json:"pattern" validate:"required"`
	Level   int      `json:"level" validate:"min=1,max=4"`
	Words   []string `json:"words" validate:"len=4,unique,dive,required"`
}

// Has reports whether word belongs to the category.
func (c Category) Has(word string) bool {
	for _, w := range c.Words {
		if w == word {
			return true
		}
	}
	return false
}

// Item is a word on the board. Level stays server side: sending it would
// group the board for the player.
type Item struct {
	Text     string `json:"word"`
	Level    int    `json:"-"`
	Selected bool   `json:"selected"`
}

// State is a copy of a round's observable state.
type State struct {
	ID                string     `json:"id"`
	Status            string     `json:"status"` // playing | revealing | won | lost
	Items             []Item     `json:"words"`
	Cleared           []Category `json:"cleared"`
	MistakesRemaining int        `json:"mistakesRemaining"`
	Won               bool       `json:"isWon"`
	Lost              bool       `json:"isLost"`
	Guesses           int        `json:"guesses"`
}

// Selected returns the selected items in board order.
func (s State) Selected() []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Selected {
			out = append(out, it)
		}
	}
	return out
}
