package upid

import "fmt"

// alphabet is the RFC 4648 base32 symbol set in lower case, reordered so it
// sorts in ASCII order. Every latin letter is present, so short words work
// as prefixes.
const alphabet = "234567abcdefghijklmnopqrstuvwxyz"

const invalidSymbol = 0xFF

// decodeTable maps an ASCII byte to its 5-bit value, or invalidSymbol.
var decodeTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = invalidSymbol
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = byte(i)
	}
	return t
}()

// Alphabet returns the 32 symbols in value order.
func Alphabet() string { return alphabet }

// EncodeSymbol returns the symbol for the low 5 bits of v.
func EncodeSymbol(v uint8) byte {
	return alphabet[v&0x1f]
}

// DecodeSymbol returns the 5-bit value of c. Only lower case is accepted.
func DecodeSymbol(c byte) (uint8, error) {
	v := decodeTable[c]
	if v == invalidSymbol {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCharacter, c)
	}
	return v, nil
}
