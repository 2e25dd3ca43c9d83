// Package posting implements the per-token document-id collection backing
// logdex's inverted index: an inline small-vector that promotes itself to a
// hash set once it grows past a fixed threshold.
//
// Ground truth: spec.md §4.5. The promotion threshold (128 inline, then a
// bucketmap.Set) is spec.md's own number; it supersedes the smaller
// SmallVec<[DocId; 4]> the Rust original actually uses, since spec.md is
// explicit that 128 is this system's tunable constant.
package posting

import "github.com/standardbeagle/logdex/internal/bucketmap"

const inlineThreshold = 128

// hashDocID is the key-hash function for a posting's promoted set. DocId is
// already a dense, process-local integer, so a cheap avalanche over the raw
// bits is enough; it does not need to be the same mixer tokens use.
func hashDocID(id uint64) uint64 {
	id ^= id >> 33
	id *= 0xff51afd7ed558ccd
	id ^= id >> 33
	id *= 0xc4ceb9fe1a85ec53
	id ^= id >> 33
	return id
}

// Posting is the tagged-union doc-id collection for one token: inline while
// small, promoted to a set once it exceeds inlineThreshold distinct ids.
// The zero value is a valid, empty, inline posting.
type Posting struct {
	inline   []uint64
	promoted *bucketmap.Set[uint64]
}

// New returns an empty posting.
func New() *Posting {
	return &Posting{}
}

// Add inserts id, a no-op if id is already present.
func (p *Posting) Add(id uint64) {
	if p.promoted != nil {
		p.promoted.Insert(id, bucketmap.Empty{})
		return
	}
	for _, existing := range p.inline {
		if existing == id {
			return
		}
	}
	if len(p.inline) < inlineThreshold {
		p.inline = append(p.inline, id)
		return
	}
	p.promote()
	p.promoted.Insert(id, bucketmap.Empty{})
}

func (p *Posting) promote() {
	set := bucketmap.NewSet[uint64](4096, hashDocID)
	for _, id := range p.inline {
		set.Insert(id, bucketmap.Empty{})
	}
	p.promoted = set
	p.inline = nil
}

// Remove deletes id, a no-op if absent.
func (p *Posting) Remove(id uint64) {
	if p.promoted != nil {
		p.promoted.Remove(id)
		return
	}
	for i, existing := range p.inline {
		if existing == id {
			p.inline[i] = p.inline[len(p.inline)-1]
			p.inline = p.inline[:len(p.inline)-1]
			return
		}
	}
}

// Contains reports whether id is a member.
func (p *Posting) Contains(id uint64) bool {
	if p.promoted != nil {
		_, ok := p.promoted.Get(id)
		return ok
	}
	for _, existing := range p.inline {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of distinct ids stored.
func (p *Posting) Len() int {
	if p.promoted != nil {
		return p.promoted.Len()
	}
	return len(p.inline)
}

// IsEmpty reports whether the posting holds no ids. Empty postings must not
// remain reachable from the inverted index; the index is responsible for
// dropping them.
func (p *Posting) IsEmpty() bool {
	return p.Len() == 0
}

// ToVec returns every stored id, in implementation-defined order.
func (p *Posting) ToVec() []uint64 {
	if p.promoted != nil {
		return p.promoted.Keys()
	}
	out := make([]uint64, len(p.inline))
	copy(out, p.inline)
	return out
}

// ToSet returns a fresh bucketmap.Set containing every stored id, suitable
// for set-algebra joins against other postings.
func (p *Posting) ToSet() *bucketmap.Set[uint64] {
	if p.promoted != nil {
		out := bucketmap.NewSet[uint64](4096, hashDocID)
		p.promoted.Range(func(k uint64, _ bucketmap.Empty) bool {
			out.Insert(k, bucketmap.Empty{})
			return true
		})
		return out
	}
	out := bucketmap.NewSet[uint64](4096, hashDocID)
	for _, id := range p.inline {
		out.Insert(id, bucketmap.Empty{})
	}
	return out
}

// FirstID returns an arbitrary member id and true, or (0, false) if empty.
// Eviction uses this as a cheap approximation of a posting's age: only one
// sample id is inspected, per spec.md §4.6.
func (p *Posting) FirstID() (uint64, bool) {
	if p.promoted != nil {
		var found uint64
		ok := false
		p.promoted.Range(func(k uint64, _ bucketmap.Empty) bool {
			found = k
			ok = true
			return false
		})
		return found, ok
	}
	if len(p.inline) == 0 {
		return 0, false
	}
	return p.inline[0], true
}
