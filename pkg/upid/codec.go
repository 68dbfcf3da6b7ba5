package upid

import "fmt"

const (
	// EncodedLen is the number of symbols in the canonical text form.
	EncodedLen = prefixChars + timeChars + randomChars + versionChars
	// DisplayLen is EncodedLen plus the separator.
	DisplayLen = EncodedLen + 1
	// Separator is the cosmetic mark between prefix and body.
	Separator = '_'

	prefixChars  = PrefixLen
	timeChars    = 8
	randomChars  = 13
	versionChars = 1

	timeOffset    = prefixChars
	randomOffset  = timeOffset + timeChars
	versionOffset = randomOffset + randomChars

	// lastRandom is the random symbol that carries only 4 bits.
	lastRandom = versionOffset - 1
)

// Encode returns the 26-symbol canonical text of id.
func Encode(id UPID) string {
	var buf [EncodedLen]byte
	encodeTo(buf[:], id)
	return string(buf[:])
}

// encodeTo writes EncodedLen symbols into dst. Groups are taken MSB first;
// the 64 random bits fill 12 full symbols and a final 4-bit symbol.
func encodeTo(dst []byte, id UPID) {
	f := Unpack(id)
	for i := 0; i < prefixChars; i++ {
		shift := 5 * (prefixChars - 1 - i)
		dst[i] = alphabet[(f.Prefix>>shift)&0x1f]
	}
	for i := 0; i < timeChars; i++ {
		shift := 5 * (timeChars - 1 - i)
		dst[timeOffset+i] = alphabet[(f.Timestamp>>shift)&0x1f]
	}
	for i := 0; i < randomChars-1; i++ {
		shift := 4 + 5*(randomChars-2-i)
		dst[randomOffset+i] = alphabet[(f.Random>>shift)&0x1f]
	}
	dst[lastRandom] = alphabet[f.Random&0xf]
	dst[versionOffset] = alphabet[f.Version&0xf]
}

// Decode parses the canonical form, or the display form with a separator
// after the prefix. Length is checked first, then every symbol, then the
// 4-bit positions.
func Decode(s string) (UPID, error) {
	n := len(s)
	sep := n > prefixChars && s[prefixChars] == Separator
	if sep {
		n--
	}
	if n != EncodedLen {
		return Nil, fmt.Errorf("%w: %d symbols, want %d", ErrInvalidLength, n, EncodedLen)
	}

	var vals [EncodedLen]byte
	for i, j := 0, 0; i < len(s); i++ {
		if sep && i == prefixChars {
			continue
		}
		v := decodeTable[s[i]]
		if v == invalidSymbol {
			return Nil, fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, s[i], i)
		}
		vals[j] = v
		j++
	}
	if vals[lastRandom] > 0xf {
		return Nil, fmt.Errorf("%w: random symbol %q", ErrOverflow, alphabet[vals[lastRandom]])
	}
	if vals[versionOffset] > 0xf {
		return Nil, fmt.Errorf("%w: version symbol %q", ErrOverflow, alphabet[vals[versionOffset]])
	}

	var f Fields
	for _, v := range vals[:timeOffset] {
		f.Prefix = f.Prefix<<5 | uint32(v)
	}
	for _, v := range vals[timeOffset:randomOffset] {
		f.Timestamp = f.Timestamp<<5 | uint64(v)
	}
	for _, v := range vals[randomOffset:lastRandom] {
		f.Random = f.Random<<5 | uint64(v)
	}
	f.Random = f.Random<<4 | uint64(vals[lastRandom])
	f.Version = vals[versionOffset]
	return pack(f), nil
}
