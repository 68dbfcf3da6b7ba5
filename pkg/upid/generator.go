package upid

import "time"

const (
	// PrefixLen is the number of prefix symbols.
	PrefixLen = 4
	// PrefixFiller right-pads short prefixes.
	PrefixFiller = 'z'
	// Version is the format revision written by this package, rendered 'a'.
	Version uint8 = 6
)

// Generator creates UPIDs from a Clock and a Source. It holds no mutable
// state and is safe for concurrent use when its Source is.
type Generator struct {
	clock  Clock
	source Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock. A nil clock is ignored.
func WithClock(c Clock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithSource sets the random source. A nil source is ignored.
func WithSource(s Source) Option {
	return func(g *Generator) {
		if s != nil {
			g.source = s
		}
	}
}

// NewGenerator returns a Generator using the system clock and crypto/rand
// unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock:  SystemClock{},
		source: CryptoSource{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// New returns a UPID for prefix at the current time, using crypto/rand.
func New(prefix string) (UPID, error) {
	return defaultGenerator.New(prefix)
}

// New returns a UPID for prefix at the generator's current time.
func (g *Generator) New(prefix string) (UPID, error) {
	return g.NewAt(prefix, g.clock.Now())
}

// NewAt returns a UPID for prefix backdated (or forward-dated) to t.
func (g *Generator) NewAt(prefix string, t time.Time) (UPID, error) {
	return g.NewAtMilliseconds(prefix, t.UnixMilli())
}

// NewAtMilliseconds returns a UPID for prefix at ms unix milliseconds.
func (g *Generator) NewAtMilliseconds(prefix string, ms int64) (UPID, error) {
	f, err := fieldsFor(prefix, ms)
	if err != nil {
		return Nil, err
	}
	f.Random = g.source.Uint64()
	return pack(f), nil
}

// FromParts builds a UPID from explicit parts with the current Version.
// ms is truncated to its 256 ms tick.
func FromParts(prefix string, ms int64, random uint64) (UPID, error) {
	f, err := fieldsFor(prefix, ms)
	if err != nil {
		return Nil, err
	}
	f.Random = random
	return pack(f), nil
}

// ValidatePrefix reports whether prefix can be packed: at most 4 symbols,
// all from the alphabet.
func ValidatePrefix(prefix string) error {
	_, err := packPrefix(prefix)
	return err
}

// PadPrefix validates prefix and right-pads it with PrefixFiller to the
// four symbols stored in an identifier. Prefixes that differ only in
// trailing filler, such as "ab" and "abz", pad to the same value.
func PadPrefix(prefix string) (string, error) {
	bits, err := packPrefix(prefix)
	if err != nil {
		return "", err
	}
	return unpackPrefix(bits), nil
}

func fieldsFor(prefix string, ms int64) (Fields, error) {
	p, err := packPrefix(prefix)
	if err != nil {
		return Fields{}, err
	}
	tick, err := tickOf(ms)
	if err != nil {
		return Fields{}, err
	}
	return Fields{Timestamp: tick, Prefix: p, Version: Version}, nil
}
