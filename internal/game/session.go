// internal/game/session.go
//
// Session holds the authoritative state of one puzzle: the remaining board,
// selection flags, cleared categories, the mistake budget, outcome flags and
// the guess history. All mutation goes through the methods in this file and
// in evaluate.go; the Round controller is the only writer.

package game

// Session is the mutable state of one puzzle.
type Session struct {
	Categories        []Category // puzzle order, never mutated
	Items             []Item     // remaining board
	Cleared           []Category // clearance order, append-only
	MistakesRemaining int
	Won               bool
	Lost              bool
	History           [][]string // every evaluated guess as a sorted set of texts

	cleared []bool // indexed like Categories
	shuffle Shuffler
}

// NewSession flattens the categories into a board, shuffles it once and
// resets the mistake budget. A nil shuffle means RandomShuffle.
func NewSession(categories []Category, shuffle Shuffler) *Session {
	if shuffle == nil {
		shuffle = RandomShuffle
	}
	s := &Session{
		Categories:        make([]Category, len(categories)),
		MistakesRemaining: MaxMistakes,
		cleared:           make([]bool, len(categories)),
		shuffle:           shuffle,
	}
	for i, c := range categories {
		c.Words = append([]string(nil), c.Words...)
		s.Categories[i] = c
		for _, w := range c.Words {
			s.Items = append(s.Items, Item{Text: w, Level: c.Level})
		}
	}
	s.shuffle(s.Items)
	return s
}

// Selected returns the selected items in board order.
func (s *Session) Selected() []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Selected {
			out = append(out, it)
		}
	}
	return out
}

func (s *Session) selectedCount() int {
	n := 0
	for _, it := range s.Items {
		if it.Selected {
			n++
		}
	}
	return n
}

// SelectWord toggles the item with the given text. Selecting a fifth item
// is ignored; deselecting is always allowed. Unknown text is ignored.
func (s *Session) SelectWord(text string) {
	n := s.selectedCount()
	for i := range s.Items {
		if s.Items[i].Text != text {
			continue
		}
		if !s.Items[i].Selected && n >= GroupSize {
			return
		}
		s.Items[i].Selected = !s.Items[i].Selected
		return
	}
}

// DeselectAllWords clears every selection flag.
func (s *Session) DeselectAllWords() {
	for i := range s.Items {
		s.Items[i].Selected = false
	}
}

// ShuffleWords permutes the remaining board; selection flags travel with
// their items.
func (s *Session) ShuffleWords() {
	s.shuffle(s.Items)
}

// IsCleared reports whether the category at index i has been cleared.
func (s *Session) IsCleared(i int) bool {
	return i >= 0 && i < len(s.cleared) && s.cleared[i]
}

// clearCategory removes the category's words from the board and appends it
// to Cleared. Clearing twice is a no-op.
func (s *Session) clearCategory(i int) {
	if s.IsCleared(i) {
		return
	}
	c := s.Categories[i]
	kept := s.Items[:0]
	for _, it := range s.Items {
		if !c.Has(it.Text) {
			kept = append(kept, it)
		}
	}
	s.Items = kept
	s.cleared[i] = true
	s.Cleared = append(s.Cleared, c)
}

// Done reports whether the session reached a terminal outcome.
func (s *Session) Done() bool { return s.Won || s.Lost }
