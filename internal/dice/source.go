package dice

import (
	"crypto/rand"
	"math/big"
)

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics if n <= 0 or if crypto/rand fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// FixedSource replays a fixed sequence of die faces. Each value is the face
// wanted (1..sides); the sequence wraps around when exhausted.
type FixedSource struct {
	Faces []int
	next  int
}

// Intn returns the next face minus one, clamped to [0, n).
func (f *FixedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if len(f.Faces) == 0 {
		return 0
	}
	face := f.Faces[f.next%len(f.Faces)]
	f.next++
	return min(max(face-1, 0), n-1)
}
