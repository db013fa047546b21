package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper captures the round state at every pause.
type recordingSleeper struct {
	round  *Round
	pauses []time.Duration
	seen   []State
}

func (s *recordingSleeper) Sleep(d time.Duration) {
	s.pauses = append(s.pauses, d)
	s.seen = append(s.seen, s.round.State())
}

type countingObserver struct {
	mu      sync.Mutex
	guesses map[Result]int
	wins    int
	losses  int
}

func (o *countingObserver) Guess(r Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.guesses == nil {
		o.guesses = map[Result]int{}
	}
	o.guesses[r]++
}

func (o *countingObserver) Finished(won bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if won {
		o.wins++
	} else {
		o.losses++
	}
}

func newTestRound(t *testing.T) (*Round, *recordingSleeper, *countingObserver) {
	t.Helper()
	sl := &recordingSleeper{}
	obs := &countingObserver{}
	r := NewRound("r1", NewSession(testCategories(), noShuffle),
		WithSleeper(sl), WithInterval(time.Second), WithObserver(obs))
	sl.round = r
	return r, sl, obs
}

func submit(t *testing.T, r *Round, words ...string) Result {
	t.Helper()
	_, err := r.DeselectAll()
	require.NoError(t, err)
	for _, w := range words {
		_, err := r.Select(w)
		require.NoError(t, err)
	}
	res, _, err := r.Submit()
	require.NoError(t, err)
	return res
}

func TestRoundSubmitRequiresFour(t *testing.T) {
	r, _, obs := newTestRound(t)
	_, _ = r.Select("1")
	_, _ = r.Select("2")

	_, st, err := r.Submit()
	assert.ErrorIs(t, err, ErrSelectionSize)
	assert.Equal(t, MaxMistakes, st.MistakesRemaining)
	assert.Equal(t, 0, st.Guesses)
	assert.Empty(t, obs.guesses)
}

func TestRoundSelectSnapshot(t *testing.T) {
	r, _, _ := newTestRound(t)
	st, err := r.Select("7")
	require.NoError(t, err)
	assert.Equal(t, "playing", st.Status)
	assert.Equal(t, []Item{{Text: "7", Level: 2, Selected: true}}, st.Selected())

	// Snapshots are copies.
	st.Items[0].Text = "mutated"
	assert.Equal(t, "1", r.State().Items[0].Text)
}

func TestRoundWinSequence(t *testing.T) {
	r, sl, obs := newTestRound(t)

	for _, words := range [][]string{{"1", "2", "3", "4"}, {"5", "6", "7", "8"}, {"9", "10", "11", "12"}} {
		assert.Equal(t, ResultCorrect, submit(t, r, words...))
	}
	assert.Equal(t, ResultWin, submit(t, r, "13", "14", "15", "16"))

	st := r.State()
	assert.Equal(t, "revealing", st.Status)
	assert.False(t, st.Won)

	_, err := r.Select("1")
	assert.ErrorIs(t, err, ErrGameOver)

	require.NoError(t, r.Finish())

	st = r.State()
	assert.True(t, st.Won)
	assert.False(t, st.Lost)
	assert.Equal(t, "won", st.Status)
	assert.Equal(t, []time.Duration{time.Second}, sl.pauses)
	require.Len(t, sl.seen, 1)
	assert.False(t, sl.seen[0].Won)
	assert.Equal(t, 1, obs.wins)
	assert.Equal(t, 4, obs.guesses[ResultCorrect]+obs.guesses[ResultWin])

	assert.ErrorIs(t, r.Finish(), ErrNotFinishing)
}

func TestRoundLossSequence(t *testing.T) {
	r, sl, obs := newTestRound(t)

	// Solve C first so the reveal has to skip it.
	assert.Equal(t, ResultCorrect, submit(t, r, "9", "10", "11", "12"))
	assert.Equal(t, ResultIncorrect, submit(t, r, "1", "2", "5", "6"))
	assert.Equal(t, ResultIncorrect, submit(t, r, "1", "2", "5", "13"))
	assert.Equal(t, ResultOneAway, submit(t, r, "1", "2", "3", "5"))
	assert.Equal(t, ResultLoss, submit(t, r, "1", "5", "13", "14"))

	require.NoError(t, r.Finish())

	st := r.State()
	assert.True(t, st.Lost)
	assert.False(t, st.Won)
	assert.Equal(t, "lost", st.Status)
	assert.Equal(t, 0, st.MistakesRemaining)
	assert.Empty(t, st.Items)
	assert.Equal(t, []string{"C", "A", "B", "D"}, patterns(st.Cleared))
	assert.Equal(t, 1, obs.losses)

	// One pause per unsolved category plus the final one.
	require.Len(t, sl.pauses, 4)
	assert.Empty(t, sl.seen[0].Selected())
	assert.Equal(t, []string{"C"}, patterns(sl.seen[0].Cleared))
	assert.Equal(t, []string{"C", "A"}, patterns(sl.seen[1].Cleared))
	assert.Equal(t, []string{"C", "A", "B"}, patterns(sl.seen[2].Cleared))
	assert.Len(t, sl.seen[2].Items, 4)
	assert.Equal(t, []string{"C", "A", "B", "D"}, patterns(sl.seen[3].Cleared))
	for _, seen := range sl.seen {
		assert.False(t, seen.Lost)
		assert.Equal(t, "revealing", seen.Status)
	}
}

func TestRoundLossRevealsInPuzzleOrder(t *testing.T) {
	cats := testCategories()
	// Declaration order differs from level order.
	cats[0].Level, cats[3].Level = 4, 1
	sl := &recordingSleeper{}
	r := NewRound("r2", NewSession(cats, noShuffle), WithSleeper(sl))
	sl.round = r

	for _, g := range [][]string{{"1", "2", "5", "6"}, {"1", "2", "5", "9"}, {"1", "5", "9", "13"}} {
		assert.Equal(t, ResultIncorrect, submit(t, r, g...))
	}
	assert.Equal(t, ResultLoss, submit(t, r, "2", "6", "10", "14"))
	require.NoError(t, r.Finish())

	assert.Equal(t, []string{"A", "B", "C", "D"}, patterns(r.State().Cleared))
	assert.Equal(t, []time.Duration{DefaultRevealInterval, DefaultRevealInterval, DefaultRevealInterval, DefaultRevealInterval, DefaultRevealInterval}, sl.pauses)
}

func TestRoundRejectsAfterEnd(t *testing.T) {
	r, _, _ := newTestRound(t)
	for _, g := range [][]string{{"1", "2", "5", "6"}, {"1", "2", "5", "9"}, {"1", "5", "9", "13"}, {"2", "6", "10", "14"}} {
		submit(t, r, g...)
	}
	require.NoError(t, r.Finish())

	_, err := r.Shuffle()
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = r.DeselectAll()
	assert.ErrorIs(t, err, ErrGameOver)
	_, _, err = r.Submit()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestRoundFinishWithoutEnding(t *testing.T) {
	r, _, _ := newTestRound(t)
	assert.ErrorIs(t, r.Finish(), ErrNotFinishing)
}

func TestRoundConcurrentReadsDuringReveal(t *testing.T) {
	release := make(chan struct{})
	r := NewRound("r3", NewSession(testCategories(), noShuffle),
		WithSleeper(SleeperFunc(func(time.Duration) { <-release })))

	for _, g := range [][]string{{"1", "2", "5", "6"}, {"1", "2", "5", "9"}, {"1", "5", "9", "13"}, {"2", "6", "10", "14"}} {
		submit(t, r, g...)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Finish()
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := r.State()
			assert.False(t, st.Won && st.Lost)
		}()
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		release <- struct{}{}
	}
	<-done
	assert.True(t, r.State().Lost)
}
