// Package fasthash implements the branchless u64 mixer and the two-path
// string hash the rest of logdex builds tokens and bucket placement on.
//
// Ground truth: original_source/src/utils/buggu_ultra_fast_hash.rs and
// original_source/src/ufhg.rs (the Rust implementation this spec was
// distilled from). hash_token's dual strategy and hash_u64's zero-safe
// mixing are followed byte-for-byte so that two independent
// implementations of this spec hash identically.
package fasthash

// FastK1 is the fixed odd multiplier used by every mixing step in this
// package. Chosen for its distribution properties, not for any
// cryptographic quality (tokens are opaque identifiers, not a security
// boundary).
const FastK1 uint64 = 0x517cc1b727220a95

// HashU64 mixes x so that x=0 does not collapse to a fixed point: an input
// of 0 is replaced by 1 before multiplying (every other input is used
// unchanged), then the high half is folded in with XOR.
func HashU64(x uint64) uint64 {
	mask := uint64(0)
	if x == 0 {
		mask = 1
	}
	adjusted := x | mask
	return (adjusted * FastK1) ^ (adjusted >> 32)
}

// HashShortStr reads up to the first 6 bytes of s as little-endian u16
// chunks packed into a u64, then mixes with HashU64. A 1-byte string uses
// its single byte; 2-3 bytes use one chunk, 4-5 bytes two chunks, and 6 or
// more bytes three chunks, so the last byte of a 3- or 5-byte string is not
// read. Returns FastK1 for the empty string.
func HashShortStr(s string) uint64 {
	if len(s) == 0 {
		return FastK1
	}
	b := []byte(s)
	var data uint64
	switch {
	case len(b) == 1:
		data = uint64(b[0])
	case len(b) <= 3:
		data = u16le(b, 0)
	case len(b) <= 5:
		data = u16le(b, 0) | (u16le(b, 2) << 16)
	default: // len >= 6
		data = u16le(b, 0) | (u16le(b, 2) << 16) | (u16le(b, 4) << 32)
	}
	return HashU64(data)
}

// u16le reads two bytes starting at off as a little-endian u16, zero-padding
// if the slice is shorter than off+2.
func u16le(b []byte, off int) uint64 {
	var lo, hi byte
	if off < len(b) {
		lo = b[off]
	}
	if off+1 < len(b) {
		hi = b[off+1]
	}
	return uint64(lo) | uint64(hi)<<8
}

// HashToken is the caller-visible string->token function. Every byte of s
// being ASCII-alpha routes through a fast decimal-accumulation path that
// stays small and collision-prone-but-opaque; any other byte abandons the
// fast path for HashShortStr on the first sighting.
//
// HashToken("") == 0.
func HashToken(s string) uint64 {
	if len(s) == 0 {
		return 0
	}
	var result uint64
	for i := 0; i < len(s); i++ {
		b := s[i]
		var pos uint64
		switch {
		case b >= 'a' && b <= 'z':
			pos = uint64(b-'a') + 1
		case b >= 'A' && b <= 'Z':
			pos = uint64(b-'A') + 27
		default:
			return HashShortStr(s)
		}
		if pos < 10 {
			result = result*10 + pos
		} else {
			result = result*100 + pos
		}
	}
	return result
}
