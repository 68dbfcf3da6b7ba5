package upid

import "errors"

var (
	// ErrInvalidCharacter reports a symbol outside the alphabet, including
	// upper-case letters.
	ErrInvalidCharacter = errors.New("upid: invalid character")
	// ErrInvalidLength reports text or bytes of the wrong length.
	ErrInvalidLength = errors.New("upid: invalid length")
	// ErrOverflow reports a symbol too large for a 4-bit position.
	ErrOverflow = errors.New("upid: value overflows field")
	// ErrPrefixTooLong reports a prefix over 4 characters.
	ErrPrefixTooLong = errors.New("upid: prefix longer than 4 characters")
	// ErrTimestampOutOfRange reports a timestamp before the Unix epoch or
	// beyond the 40-bit tick field.
	ErrTimestampOutOfRange = errors.New("upid: timestamp out of range")
)

// Kind returns a stable snake_case name for the category of err, or "" if
// err does not come from this package.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCharacter):
		return "invalid_character"
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrPrefixTooLong):
		return "prefix_too_long"
	case errors.Is(err, ErrTimestampOutOfRange):
		return "timestamp_out_of_range"
	default:
		return ""
	}
}
