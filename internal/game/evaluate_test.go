package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLikeness(t *testing.T) {
	sel := []Item{{Text: "1"}, {Text: "2"}, {Text: "3"}, {Text: "5"}}
	ev := Evaluate(testCategories(), sel, nil)

	assert.False(t, ev.Duplicate)
	assert.Equal(t, []int{3, 1, 0, 0}, ev.Likeness)
	assert.Equal(t, 3, ev.MaxLikeness)
	assert.Equal(t, 0, ev.Match)
	assert.Equal(t, []string{"1", "2", "3", "5"}, ev.Key)
}

func TestEvaluateTieGoesToFirstCategory(t *testing.T) {
	sel := []Item{{Text: "9"}, {Text: "10"}, {Text: "5"}, {Text: "6"}}
	ev := Evaluate(testCategories(), sel, nil)

	assert.Equal(t, 2, ev.MaxLikeness)
	assert.Equal(t, 1, ev.Match)
}

func TestEvaluateDuplicateIgnoresOrder(t *testing.T) {
	history := [][]string{{"1", "2", "3", "5"}}
	sel := []Item{{Text: "5"}, {Text: "3"}, {Text: "2"}, {Text: "1"}}
	ev := Evaluate(testCategories(), sel, history)

	assert.True(t, ev.Duplicate)
	assert.Nil(t, ev.Likeness)
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name     string
		guess    []string
		want     Result
		mistakes int
		cleared  int
	}{
		{"one away", []string{"1", "2", "3", "5"}, ResultOneAway, 3, 0},
		{"incorrect", []string{"1", "2", "5", "6"}, ResultIncorrect, 3, 0},
		{"correct", []string{"1", "2", "3", "4"}, ResultCorrect, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testCategories(), noShuffle)
			selectAll(s, tt.guess...)

			assert.Equal(t, tt.want, s.Submit())
			assert.Equal(t, tt.mistakes, s.MistakesRemaining)
			assert.Len(t, s.Cleared, tt.cleared)
			assert.Len(t, s.History, 1)
		})
	}
}

func TestSubmitCorrectRemovesCategory(t *testing.T) {
	s := NewSession(testCategories(), noShuffle)
	selectAll(s, "4", "2", "3", "1")

	require.Equal(t, ResultCorrect, s.Submit())
	assert.Len(t, s.Items, 12)
	for _, it := range s.Items {
		assert.NotContains(t, []string{"1", "2", "3", "4"}, it.Text)
	}
	assert.Empty(t, s.Selected())
}

func TestSubmitSameGuessTwice(t *testing.T) {
	s := NewSession(testCategories(), noShuffle)
	selectAll(s, "1", "2", "3", "5")

	require.Equal(t, ResultOneAway, s.Submit())
	assert.Equal(t, ResultSame, s.Submit())
	assert.Equal(t, ResultSame, s.Submit())

	assert.Equal(t, 3, s.MistakesRemaining)
	assert.Len(t, s.History, 1)
	assert.Empty(t, s.Cleared)
}

func TestSubmitFourMistakesLoses(t *testing.T) {
	s := NewSession(testCategories(), noShuffle)
	guesses := [][]string{
		{"1", "2", "5", "6"},
		{"1", "2", "5", "9"},
		{"1", "5", "9", "13"},
		{"2", "6", "10", "14"},
	}
	var got []Result
	for _, g := range guesses {
		s.DeselectAllWords()
		selectAll(s, g...)
		got = append(got, s.Submit())
	}

	assert.Equal(t, []Result{ResultIncorrect, ResultIncorrect, ResultIncorrect, ResultLoss}, got)
	assert.Equal(t, 0, s.MistakesRemaining)
}

func TestSubmitLossBeatsOneAway(t *testing.T) {
	s := NewSession(testCategories(), noShuffle)
	s.MistakesRemaining = 1
	selectAll(s, "1", "2", "3", "5")

	assert.Equal(t, ResultLoss, s.Submit())
	assert.Equal(t, 0, s.MistakesRemaining)
}

func TestSubmitFourthClearanceWins(t *testing.T) {
	s := NewSession(testCategories(), noShuffle)
	var got []Result
	for _, c := range []int{2, 0, 3, 1} {
		selectAll(s, s.Categories[c].Words...)
		got = append(got, s.Submit())
	}

	assert.Equal(t, []Result{ResultCorrect, ResultCorrect, ResultCorrect, ResultWin}, got)
	assert.Empty(t, s.Items)
	assert.Equal(t, []string{"C", "A", "D", "B"}, patterns(s.Cleared))
}

func patterns(cs []Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Pattern
	}
	return out
}
