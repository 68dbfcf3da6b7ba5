// Package upid provides a 128-bit, sortable identifier with a short
// human-readable prefix.
//
// # Format
//
// The binary form is 16 bytes big-endian:
//
//	[40 bits timestamp][64 bits random][20 bits prefix][4 bits version]
//
// The timestamp counts 256 ms ticks since the Unix epoch (milliseconds >> 8),
// so byte-wise comparison of two identifiers orders them by creation time
// first. 40 bits of ticks last until the year 10889.
//
// The text form is 26 symbols of a lower-case base32 alphabet,
// "234567abcdefghijklmnopqrstuvwxyz", arranged as
//
//	prefix(4) timestamp(8) random(13) version(1)
//
// and usually displayed with a cosmetic '_' after the prefix:
//
//	user_2acdrlkjmhs6ar53taem6a
//
// The last random symbol and the version symbol only carry 4 bits each, so
// only the first 16 symbols of the alphabet ('2' to 'j') are valid there.
// Decoding is strict: upper case, unknown symbols and wrong lengths are
// rejected, never folded or corrected.
//
// # Generation
//
// A Generator combines a Clock and a Source of random bits. Both are plain
// values passed in with options, so tests can pin them:
//
//	g := upid.NewGenerator(
//	    upid.WithClock(upid.FixedClock(t0)),
//	    upid.WithSource(upid.NewSeededSource(42)),
//	)
//	id, err := g.New("user")
//
// Generation holds no shared mutable state and takes no locks. Identifiers
// created within one tick are ordered by their random bits only.
package upid
