// internal/game/evaluate.go
//
// Guess evaluation.
//
// Evaluate is pure: it compares a selection against the categories and the
// guess history and reports likeness per category. Submit applies that
// evaluation to the session:
//
//   - A set already in History is "same" and changes nothing.
//   - Otherwise the set is recorded, then either the best-matching category
//     is cleared (likeness 4) or a mistake is spent.
//   - Ties on likeness go to the first category in puzzle order.

package game

import (
	"slices"
)

// Evaluation is the outcome of comparing one selection with the puzzle.
type Evaluation struct {
	Duplicate   bool
	Key         []string // sorted selection texts
	Likeness    []int    // per category, puzzle order
	MaxLikeness int
	Match       int // first category index reaching MaxLikeness
}

// Evaluate compares selection with categories and history. The caller
// guarantees the selection size.
func Evaluate(categories []Category, selection []Item, history [][]string) Evaluation {
	key := guessKey(selection)
	for _, prev := range history {
		if slices.Equal(prev, key) {
			return Evaluation{Duplicate: true, Key: key, Match: -1}
		}
	}

	ev := Evaluation{Key: key, Likeness: make([]int, len(categories)), Match: -1}
	for i, c := range categories {
		for _, it := range selection {
			if c.Has(it.Text) {
				ev.Likeness[i]++
			}
		}
		if ev.Match < 0 || ev.Likeness[i] > ev.MaxLikeness {
			ev.MaxLikeness, ev.Match = ev.Likeness[i], i
		}
	}
	return ev
}

// Submit evaluates the current selection and applies the result to the
// session.
func (s *Session) Submit() Result {
	ev := Evaluate(s.Categories, s.Selected(), s.History)
	if ev.Duplicate {
		return ResultSame
	}
	s.History = append(s.History, ev.Key)

	if ev.MaxLikeness == GroupSize {
		before := len(s.Cleared)
		s.clearCategory(ev.Match)
		if before == CategoryCount-1 {
			return ResultWin
		}
		return ResultCorrect
	}

	last := s.MistakesRemaining == 1
	if s.MistakesRemaining > 0 {
		s.MistakesRemaining--
	}
	switch {
	case last:
		return ResultLoss
	case ev.MaxLikeness == GroupSize-1:
		return ResultOneAway
	default:
		return ResultIncorrect
	}
}

// guessKey is the order-independent identity of a guess.
func guessKey(items []Item) []string {
	key := make([]string, len(items))
	for i, it := range items {
		key[i] = it.Text
	}
	slices.Sort(key)
	return key
}
