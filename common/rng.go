package common

import (
	"crypto/rand"
	"io"
)

// DefaultRand is the process-wide cryptographically secure source. Code that
// needs randomness takes an io.Reader and falls back to this one.
var DefaultRand io.Reader = rand.Reader

// RandomBytes reads exactly n bytes from r.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	if r == nil {
		r = DefaultRand
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(r, p); err != nil {
		return nil, NewError("failed to read random bytes").Base(err)
	}
	return p, nil
}
