package upid

import (
	"encoding/binary"
	"fmt"
)

// Field widths of the 128-bit value, most significant first.
const (
	TimestampBits = 40
	RandomBits    = 64
	PrefixBits    = 20
	VersionBits   = 4

	// tickBits is how many low millisecond bits the timestamp drops.
	tickBits = 8

	randomLowBits = 40 // random bits stored in the low 64-bit half
	lowShift      = PrefixBits + VersionBits

	MaxTimestamp    = 1<<TimestampBits - 1
	MaxMilliseconds = 1<<(TimestampBits+tickBits) - 1
	maxPrefix       = 1<<PrefixBits - 1
	maxVersion      = 1<<VersionBits - 1
)

// Fields are the logical parts of a UPID.
type Fields struct {
	// Timestamp counts 256 ms ticks since the Unix epoch.
	Timestamp uint64
	Random    uint64
	// Prefix holds four 5-bit symbol values, first symbol highest.
	Prefix  uint32
	Version uint8
}

// Pack composes a UPID from its fields. It fails if a field is wider than
// its bit width.
func Pack(f Fields) (UPID, error) {
	if f.Timestamp > MaxTimestamp {
		return Nil, fmt.Errorf("%w: tick %d does not fit in %d bits", ErrTimestampOutOfRange, f.Timestamp, TimestampBits)
	}
	if f.Prefix > maxPrefix {
		return Nil, fmt.Errorf("%w: prefix bits %#x do not fit in %d bits", ErrOverflow, f.Prefix, PrefixBits)
	}
	if f.Version > maxVersion {
		return Nil, fmt.Errorf("%w: version %d does not fit in %d bits", ErrOverflow, f.Version, VersionBits)
	}
	return pack(f), nil
}

// pack assumes every field is in range.
func pack(f Fields) UPID {
	hi := f.Timestamp<<(64-TimestampBits) | f.Random>>randomLowBits
	lo := f.Random<<lowShift | uint64(f.Prefix)<<VersionBits | uint64(f.Version)

	var id UPID
	binary.BigEndian.PutUint64(id[0:8], hi)
	binary.BigEndian.PutUint64(id[8:16], lo)
	return id
}

// Unpack splits a UPID into its fields. Every 128-bit value unpacks.
func Unpack(id UPID) Fields {
	hi, lo := id.halves()
	return Fields{
		Timestamp: hi >> (64 - TimestampBits),
		Random:    hi<<randomLowBits | lo>>lowShift,
		Prefix:    uint32(lo>>VersionBits) & maxPrefix,
		Version:   uint8(lo & maxVersion),
	}
}

func (id UPID) halves() (hi, lo uint64) {
	return binary.BigEndian.Uint64(id[0:8]), binary.BigEndian.Uint64(id[8:16])
}

// tickOf converts unix milliseconds to a timestamp tick. Sub-tick precision
// is truncated so ticks never run ahead of the clock.
func tickOf(ms int64) (uint64, error) {
	if ms < 0 || ms > MaxMilliseconds {
		return 0, fmt.Errorf("%w: %d ms", ErrTimestampOutOfRange, ms)
	}
	return uint64(ms) >> tickBits, nil
}

// packPrefix right-pads prefix with the filler symbol and packs it into 20 bits.
func packPrefix(prefix string) (uint32, error) {
	if len(prefix) > PrefixLen {
		return 0, fmt.Errorf("%w: %q", ErrPrefixTooLong, prefix)
	}
	var bits uint32
	for i := 0; i < PrefixLen; i++ {
		c := byte(PrefixFiller)
		if i < len(prefix) {
			c = prefix[i]
		}
		v := decodeTable[c]
		if v == invalidSymbol {
			return 0, fmt.Errorf("%w: %q in prefix %q", ErrInvalidCharacter, c, prefix)
		}
		bits = bits<<5 | uint32(v)
	}
	return bits, nil
}

func unpackPrefix(bits uint32) string {
	var buf [PrefixLen]byte
	for i := range buf {
		shift := 5 * (PrefixLen - 1 - i)
		buf[i] = alphabet[(bits>>shift)&0x1f]
	}
	return string(buf[:])
}
