// Package daily derives a deterministic "word of the day" so every player
// loading the same list gets the same round on a given UTC date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Picker returns a game.Picker that selects the word of the day for date.
// The index is HMAC-SHA256(salt, DateKey(date)) reduced modulo the list
// length, so it changes at UTC midnight, differs per salt and is the same for
// every session holding the same list.
func Picker(date time.Time, salt string) game.Picker {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	v := binary.BigEndian.Uint64(h.Sum(nil)[:8])
	return func(n int) int { return int(v % uint64(n)) }
}
