// internal/game/pace.go
//
// Randomisation and pacing primitives consumed by the engine.
// Both are injectable so tests can run the reveal sequence without
// wall-clock waits and with a known board order.

package game

import (
	"math/rand"
	"time"
)

// Shuffler permutes items in place.
type Shuffler func(items []Item)

// RandomShuffle is the default Shuffler (Fisher-Yates via math/rand).
func RandomShuffle(items []Item) {
	rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

// Sleeper pauses an end sequence between steps.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a plain function to Sleeper.
type SleeperFunc func(d time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// WallClock sleeps for real.
var WallClock Sleeper = SleeperFunc(time.Sleep)
