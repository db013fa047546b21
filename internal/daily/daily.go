// internal/daily/daily.go
//
// Deterministic puzzle-of-the-day selection. The index for a date is
// HMAC-SHA256(salt, YYYY-MM-DD) reduced modulo the number of puzzles, so every
// server sharing a salt serves the same puzzle on the same UTC day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index picks the puzzle of the day out of a set of n puzzles. The same salt
// and UTC day always give the same puzzle; n <= 0 yields 0.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// reduce the leading 64 bits of the digest
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
