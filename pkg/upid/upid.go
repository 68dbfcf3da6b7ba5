package upid

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UPID is a 128-bit identifier stored as 16 big-endian bytes. It is a value
// type; the zero value is Nil.
type UPID [16]byte

// Nil is the all-zero UPID.
var Nil UPID

// BinaryLen is the length of the binary form.
const BinaryLen = 16

// Parse decodes the canonical or display text form.
func Parse(s string) (UPID, error) {
	return Decode(s)
}

// MustParse is like Parse but panics on malformed input. It is meant for
// constants and tests.
func MustParse(s string) UPID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromBytes copies a 16-byte binary form.
func FromBytes(b []byte) (UPID, error) {
	var id UPID
	if len(b) != BinaryLen {
		return Nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidLength, len(b), BinaryLen)
	}
	copy(id[:], b)
	return id, nil
}

// FromUUID reinterprets the 16 bytes of u.
func FromUUID(u uuid.UUID) UPID { return UPID(u) }

// UUID reinterprets the 16 bytes of id. The result is not an RFC 9562 UUID
// but sorts the same way under byte comparison.
func (id UPID) UUID() uuid.UUID { return uuid.UUID(id) }

// Bytes returns a copy of the binary form.
func (id UPID) Bytes() []byte {
	b := make([]byte, BinaryLen)
	copy(b, id[:])
	return b
}

// String returns the display form, e.g. "user_2acdrlkjmhs6ar53taem6a".
func (id UPID) String() string {
	var buf [DisplayLen]byte
	encodeTo(buf[1:], id)
	copy(buf[:prefixChars], buf[1:prefixChars+1])
	buf[prefixChars] = Separator
	return string(buf[:])
}

// Canonical returns the 26-symbol form without separator.
func (id UPID) Canonical() string { return Encode(id) }

// Fields returns the unpacked fields.
func (id UPID) Fields() Fields { return Unpack(id) }

// PaddedPrefix returns the four prefix symbols including any filler.
func (id UPID) PaddedPrefix() string {
	_, lo := id.halves()
	return unpackPrefix(uint32(lo>>VersionBits) & maxPrefix)
}

// Prefix returns the prefix with trailing filler removed. A prefix that
// itself ends in the filler symbol reads back shorter: "jazz" reads as "ja".
func (id UPID) Prefix() string {
	return strings.TrimRight(id.PaddedPrefix(), string(PrefixFiller))
}

// Milliseconds returns the creation time in unix milliseconds, truncated to
// the 256 ms tick.
func (id UPID) Milliseconds() int64 {
	hi, _ := id.halves()
	return int64(hi>>(64-TimestampBits)) << tickBits
}

// Time returns the creation time in UTC, truncated to the 256 ms tick.
func (id UPID) Time() time.Time {
	return time.UnixMilli(id.Milliseconds()).UTC()
}

// Random returns the 64 random bits.
func (id UPID) Random() uint64 { return Unpack(id).Random }

// Version returns the version nibble.
func (id UPID) Version() uint8 { return id[BinaryLen-1] & maxVersion }

// IsZero reports whether id is Nil.
func (id UPID) IsZero() bool { return id == Nil }

// Compare returns -1, 0 or 1. The order is timestamp, then random, then
// prefix and version.
func (id UPID) Compare(other UPID) int { return Compare(id, other) }

// Compare orders a and b by their binary form.
func Compare(a, b UPID) int { return bytes.Compare(a[:], b[:]) }

// MarshalText implements encoding.TextMarshaler using the display form.
func (id UPID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Both text forms are
// accepted.
func (id *UPID) UnmarshalText(text []byte) error {
	parsed, err := Decode(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (id UPID) MarshalBinary() ([]byte, error) { return id.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (id *UPID) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer. The UUID form suits a PostgreSQL uuid
// column, whose ordering is byte order.
func (id UPID) Value() (driver.Value, error) {
	return id.UUID().String(), nil
}

// Scan implements sql.Scanner. It accepts 16 raw bytes, UUID text, or
// either UPID text form.
func (id *UPID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = Nil
		return nil
	case []byte:
		if len(v) == BinaryLen {
			copy(id[:], v)
			return nil
		}
		return id.scanText(string(v))
	case string:
		return id.scanText(v)
	default:
		return fmt.Errorf("upid: cannot scan %T", src)
	}
}

func (id *UPID) scanText(s string) error {
	if len(s) == 36 {
		u, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("upid: scan uuid: %w", err)
		}
		*id = FromUUID(u)
		return nil
	}
	return id.UnmarshalText([]byte(s))
}
