// internal/game/round.go
//
// Round is the turn controller for one session.
// Responsibilities:
//   - Guard selection and submission (exactly four words, nothing after the end).
//   - Apply guess results and report them to an Observer.
//   - Run the end sequence: a paced win, or a loss that reveals each unsolved
//     category one interval at a time.
//
// State transitions: playing → revealing → won/lost.
//
// Every step takes the mutex, mutates the owned Session and releases it before
// the next sleep, so readers see each intermediate state and every step builds
// on the previous one.

package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultRevealInterval paces end sequences.
const DefaultRevealInterval = time.Second

// Observer is notified about guesses and outcomes (metrics, audit).
type Observer interface {
	Guess(r Result)
	Finished(won bool)
}

type nopObserver struct{}

func (nopObserver) Guess(Result)  {}
func (nopObserver) Finished(bool) {}

// Option configures a Round.
type Option func(*Round)

// WithSleeper sets the pause used between end sequence steps.
func WithSleeper(s Sleeper) Option { return func(r *Round) { r.sleeper = s } }

// WithInterval sets the pause length between end sequence steps.
func WithInterval(d time.Duration) Option { return func(r *Round) { r.interval = d } }

// WithObserver registers an Observer.
func WithObserver(o Observer) Option { return func(r *Round) { r.obs = o } }

// Round owns a Session and serialises access to it.
type Round struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	s        *Session
	pending  Result // win or loss awaiting Finish
	ending   bool   // a win/loss has been returned
	started  bool   // Finish has begun
	sleeper  Sleeper
	interval time.Duration
	obs      Observer
	log      zerolog.Logger
}

// NewRound wraps s in a controller.
func NewRound(id string, s *Session, opts ...Option) *Round {
	r := &Round{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		s:         s,
		sleeper:   WallClock,
		interval:  DefaultRevealInterval,
		obs:       nopObserver{},
		log:       log.With().Str("round", id).Logger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// State returns a snapshot of the round.
func (r *Round) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Select toggles a word.
func (r *Round) Select(text string) (State, error) {
	return r.mutate(func(s *Session) { s.SelectWord(text) })
}

// DeselectAll clears the selection.
func (r *Round) DeselectAll() (State, error) {
	return r.mutate(func(s *Session) { s.DeselectAllWords() })
}

// Shuffle reorders the board.
func (r *Round) Shuffle() (State, error) {
	return r.mutate(func(s *Session) { s.ShuffleWords() })
}

func (r *Round) mutate(fn func(*Session)) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ending || r.s.Done() {
		return r.snapshot(), ErrGameOver
	}
	fn(r.s)
	return r.snapshot(), nil
}

// Submit evaluates the current selection. A win or loss marks the round as
// ending; the caller then runs Finish to play out the end sequence.
func (r *Round) Submit() (Result, State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ending || r.s.Done() {
		return "", r.snapshot(), ErrGameOver
	}
	if r.s.selectedCount() != GroupSize {
		return "", r.snapshot(), ErrSelectionSize
	}

	res := r.s.Submit()
	r.obs.Guess(res)
	r.log.Debug().
		Str("result", string(res)).
		Int("mistakesRemaining", r.s.MistakesRemaining).
		Int("cleared", len(r.s.Cleared)).
		Msg("guess evaluated")

	if res.Ends() {
		r.ending = true
		r.pending = res
	}
	return res, r.snapshot(), nil
}

// Finish runs the pending end sequence to completion. It blocks for the
// whole sequence and may only run once.
func (r *Round) Finish() error {
	r.mu.Lock()
	if !r.ending || r.started {
		r.mu.Unlock()
		return ErrNotFinishing
	}
	r.started = true
	res := r.pending
	r.mu.Unlock()

	if res == ResultWin {
		r.handleWin()
	} else {
		r.handleLoss()
	}
	return nil
}

func (r *Round) handleWin() {
	r.sleeper.Sleep(r.interval)
	r.step(func(s *Session) { s.Won = true })
	r.obs.Finished(true)
	r.log.Info().Msg("round won")
}

func (r *Round) handleLoss() {
	var unsolved []int
	r.step(func(s *Session) {
		s.DeselectAllWords()
		for i := range s.Categories {
			if !s.IsCleared(i) {
				unsolved = append(unsolved, i)
			}
		}
	})

	for _, i := range unsolved {
		r.sleeper.Sleep(r.interval)
		r.step(func(s *Session) { s.clearCategory(i) })
		r.log.Debug().Int("category", i).Msg("category revealed")
	}

	r.sleeper.Sleep(r.interval)
	r.step(func(s *Session) { s.Lost = true })
	r.obs.Finished(false)
	r.log.Info().Int("revealed", len(unsolved)).Msg("round lost")
}

func (r *Round) step(fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.s)
}

// status reports a coarse string representation of the round.
func (r *Round) status() string {
	switch {
	case r.s.Won:
		return "won"
	case r.s.Lost:
		return "lost"
	case r.ending:
		return "revealing"
	}
	return "playing"
}

func (r *Round) snapshot() State {
	return State{
		ID:                r.ID,
		Status:            r.status(),
		Items:             append([]Item{}, r.s.Items...),
		Cleared:           append([]Category{}, r.s.Cleared...),
		MistakesRemaining: r.s.MistakesRemaining,
		Won:               r.s.Won,
		Lost:              r.s.Lost,
		Guesses:           len(r.s.History),
	}
}
