// Package codec implements the delta wire codec logdex peers use to
// exchange per-document token deltas: a FULL frame carrying a document's
// complete token list, and a DIFF frame carrying only the tokens removed and
// added since the last frame for that document id.
//
// Ground truth: spec.md §4.9. Decode is a pure function over bytes; it never
// touches index state.
package codec

import (
	"github.com/standardbeagle/logdex/internal/errors"
)

const (
	// TagFull marks a frame carrying a document's complete token list.
	TagFull byte = 0x00
	// TagDiff marks a frame carrying a removed/added token delta.
	TagDiff byte = 0x01

	maxVarintBytes = 10
)

// Frame is the decoded form of either a FULL or a DIFF frame.
type Frame struct {
	DocID   uint64
	Full    []uint64 // set when Tag == TagFull
	Removed []uint64 // set when Tag == TagDiff
	Added   []uint64 // set when Tag == TagDiff
	Tag     byte
}

// EncodeFull serializes a FULL frame: the document's entire token list.
func EncodeFull(docID uint64, tokens []uint64) []byte {
	buf := []byte{TagFull}
	buf = appendVarint(buf, docID)
	buf = appendVarint(buf, uint64(len(tokens)))
	for _, tok := range tokens {
		buf = appendVarint(buf, tok)
	}
	return buf
}

// EncodeDiff serializes a DIFF frame: the tokens removed and added since the
// previous frame for docID.
func EncodeDiff(docID uint64, removed, added []uint64) []byte {
	buf := []byte{TagDiff}
	buf = appendVarint(buf, docID)
	buf = appendVarint(buf, uint64(len(removed)))
	for _, tok := range removed {
		buf = appendVarint(buf, tok)
	}
	buf = appendVarint(buf, uint64(len(added)))
	for _, tok := range added {
		buf = appendVarint(buf, tok)
	}
	return buf
}

// Decode parses a single frame from the front of buf. It does not consult or
// mutate any index state.
func Decode(buf []byte) (Frame, error) {
	r := reader{buf: buf}

	tag, err := r.readByte()
	if err != nil {
		return Frame{}, err
	}

	docID, err := r.readVarint()
	if err != nil {
		return Frame{}, err
	}

	switch tag {
	case TagFull:
		n, err := r.readVarint()
		if err != nil {
			return Frame{}, err
		}
		toks, err := r.readVarints(n)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Tag: TagFull, DocID: docID, Full: toks}, nil

	case TagDiff:
		rn, err := r.readVarint()
		if err != nil {
			return Frame{}, err
		}
		removed, err := r.readVarints(rn)
		if err != nil {
			return Frame{}, err
		}
		an, err := r.readVarint()
		if err != nil {
			return Frame{}, err
		}
		added, err := r.readVarints(an)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Tag: TagDiff, DocID: docID, Removed: removed, Added: added}, nil

	default:
		return Frame{}, errors.NewCodecBadTag(tag)
	}
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errors.NewCodecEof()
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readVarint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, errors.NewCodecBadVarint("varint too long")
}

func (r *reader) readVarints(n uint64) ([]uint64, error) {
	out := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := r.readVarint()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// appendVarint appends n's unsigned LEB128 encoding to buf.
func appendVarint(buf []byte, n uint64) []byte {
	for n >= 0x80 {
		buf = append(buf, byte(n)|0x80)
		n >>= 7
	}
	return append(buf, byte(n))
}
