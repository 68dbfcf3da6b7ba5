package upid

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Source supplies 64 uniformly random bits. Any math/rand/v2 Source
// satisfies it.
type Source interface {
	Uint64() uint64
}

// CryptoSource reads crypto/rand and is safe for concurrent use. It is the
// default for generators.
type CryptoSource struct{}

// Uint64 returns 64 bits from the operating system's CSPRNG.
func (CryptoSource) Uint64() uint64 {
	var b [8]byte
	// Read never returns an error as of Go 1.24; it crashes instead.
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// NewSeededSource returns a deterministic ChaCha8 stream for tests. It is
// not safe for concurrent use.
func NewSeededSource(seed uint64) Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return mrand.NewChaCha8(key)
}

// fixedSource returns the same bits every time.
type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

// FixedSource returns a Source that always yields v.
func FixedSource(v uint64) Source { return fixedSource(v) }
