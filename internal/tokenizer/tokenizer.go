// Package tokenizer turns a raw log line into the token stream the rest of
// logdex indexes and queries against: one 64-bit hash per word plus a
// synthetic hash per whitespace run, alongside the byte bounds each token
// came from.
//
// Ground truth: original_source/src/ufhg.rs's tokenize_zero_copy and
// string_to_u64_to_seq_hash. Word hashing itself lives in internal/fasthash;
// this package only owns the splitting and the whitespace-run encoding.
package tokenizer

import "github.com/standardbeagle/logdex/internal/fasthash"

// Bounds is the half-open byte range [Start, End) a token was read from.
type Bounds struct {
	Start int
	End   int
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Tokenize splits message into a stream of token hashes, one per maximal
// whitespace run and one per maximal non-whitespace run, in left-to-right
// order, along with the byte bounds each hash was derived from. Whitespace
// tokens are kept (not discarded): a run of n whitespace bytes hashes to a
// deterministic function of n, so two lines whose indentation differs in
// length diverge in their token stream, while runs of equal length made of
// different whitespace bytes (tabs versus spaces) hash identically.
func Tokenize(message string) ([]uint64, []Bounds) {
	if message == "" {
		return nil, nil
	}
	hashes := make([]uint64, 0, 64)
	bounds := make([]Bounds, 0, 64)

	i := 0
	n := len(message)
	for i < n {
		start := i
		if isWhitespace(message[i]) {
			var count uint64
			for i < n && isWhitespace(message[i]) {
				count++
				i++
			}
			hashes = append(hashes, hashWhitespaceRun(count))
			bounds = append(bounds, Bounds{start, i})
			continue
		}
		for i < n && !isWhitespace(message[i]) {
			i++
		}
		word := message[start:i]
		hashes = append(hashes, fasthash.HashToken(word))
		bounds = append(bounds, Bounds{start, i})
	}
	return hashes, bounds
}

// hashWhitespaceRun maps a whitespace run's length to a token hash. The
// length is first folded to a digit string of len%8 copies of the byte
// value 32 (' ') rendered in the same decimal-accumulation scheme as
// hash_token's ASCII fast path, then the true length is mixed in, and the
// result is passed through fasthash.HashU64. Two runs of the same length
// always hash identically; this is a deliberate, documented departure from
// encoding the run's actual byte content.
func hashWhitespaceRun(length uint64) uint64 {
	count := length % 8
	var x uint64
	for j := uint64(0); j < count; j++ {
		x = x*100 + 32
	}
	x = x*1000 + length
	return fasthash.HashU64(x)
}

// PhraseHash computes the rolling hash used to key phrase queries: walk s's
// non-whitespace words left to right, ignoring whitespace runs entirely, and
// fold each word's hash_token value into an accumulator via
// h = h*31 + hash_token(word) with wrapping arithmetic.
//
// At ingest time the indexer emits one token per word, never a phrase
// token, so a Phrase query only hits when the queried phrase's word
// sequence happens to collide with a single already-indexed token. This
// asymmetry is intentional and carried over unchanged; see DESIGN.md.
func PhraseHash(s string) uint64 {
	var h uint64
	n := len(s)
	i := 0
	for i < n {
		if isWhitespace(s[i]) {
			i++
			continue
		}
		start := i
		for i < n && !isWhitespace(s[i]) {
			i++
		}
		word := s[start:i]
		h = h*31 + fasthash.HashToken(word)
	}
	return h
}
