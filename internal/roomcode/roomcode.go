package roomcode

import (
	"errors"
	"math/rand"
)

const (
	// Length of every room code. 26^4 gives ~456k combinations, plenty for
	// the handful of concurrent rooms a single process hosts.
	Length = 4

	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	maxAttempts = 1000
)

var ErrExhausted = errors.New("room code space exhausted")

// Generate draws uppercase codes uniformly at random until taken reports a
// free one. Collisions regenerate the whole code, not single characters.
// The attempt cap guards against a saturated registry spinning forever.
func Generate(taken func(string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code := random()
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrExhausted
}

func random() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
