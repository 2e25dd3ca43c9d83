// Package bucketmap implements the fixed-capacity, open-addressed hash map
// backing every index structure in logdex: the inverted index, the
// level/service indexes, and the document store's auxiliary lookups.
//
// Ground truth: spec.md §4.3. Capacity is chosen once at construction
// (4, 4_096, 40_000, 50_000 are this system's call sites) and
// never grows; buckets hold up to 4 entries inline before spilling to a
// growable overflow slice, and demote back to inline once an overflow
// bucket's size drops to 4 or fewer. Bucket selection is a deterministic,
// seed-stable function of the key's hash via internal/prng — an unusual
// choice (spec.md §9 notes any uniform function of hash(key) would do) but
// the one this system's normative source (original_source/src/...) and its
// spec use throughout.
package bucketmap

import "github.com/standardbeagle/logdex/internal/prng"

type bucketState uint8

const (
	stateEmpty bucketState = iota
	stateInline
	stateOverflow
)

const inlineCap = 4

type entry[K comparable, V any] struct {
	key K
	val V
}

type bucket[K comparable, V any] struct {
	state    bucketState
	inline   [inlineCap]entry[K, V]
	inlineN  int
	overflow []entry[K, V]
}

// Map is the bucketed hash map described by spec.md §4.3.
type Map[K comparable, V any] struct {
	buckets []bucket[K, V]
	hashFn  func(K) uint64
	size    int
}

// New allocates a map with exactly n Empty buckets. n is fixed for the
// lifetime of the map; there is no rehash or grow step. hashFn must produce
// a stable u64 for a given key across the process lifetime.
func New[K comparable, V any](n int, hashFn func(K) uint64) *Map[K, V] {
	if n < 1 {
		n = 1
	}
	return &Map[K, V]{
		buckets: make([]bucket[K, V], n),
		hashFn:  hashFn,
	}
}

// Len returns the number of distinct keys stored.
func (m *Map[K, V]) Len() int { return m.size }

func (m *Map[K, V]) bucketFor(k K) *bucket[K, V] {
	h := m.hashFn(k)
	idx := prng.New(h).Range(0, uint64(len(m.buckets)-1))
	return &m.buckets[idx]
}

// Insert stores v under k, returning the previous value and whether one
// existed.
func (m *Map[K, V]) Insert(k K, v V) (prev V, had bool) {
	b := m.bucketFor(k)
	switch b.state {
	case stateEmpty:
		b.state = stateInline
		b.inline[0] = entry[K, V]{k, v}
		b.inlineN = 1
		m.size++
		return prev, false

	case stateInline:
		for i := 0; i < b.inlineN; i++ {
			if b.inline[i].key == k {
				prev = b.inline[i].val
				b.inline[i].val = v
				return prev, true
			}
		}
		if b.inlineN < inlineCap {
			b.inline[b.inlineN] = entry[K, V]{k, v}
			b.inlineN++
			m.size++
			return prev, false
		}
		// Promote to overflow.
		b.overflow = make([]entry[K, V], b.inlineN, b.inlineN+1)
		copy(b.overflow, b.inline[:b.inlineN])
		b.overflow = append(b.overflow, entry[K, V]{k, v})
		b.inlineN = 0
		b.state = stateOverflow
		m.size++
		return prev, false

	default: // stateOverflow
		for i := range b.overflow {
			if b.overflow[i].key == k {
				prev = b.overflow[i].val
				b.overflow[i].val = v
				return prev, true
			}
		}
		b.overflow = append(b.overflow, entry[K, V]{k, v})
		m.size++
		return prev, false
	}
}

// Get returns the value stored for k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	b := m.bucketFor(k)
	switch b.state {
	case stateInline:
		for i := 0; i < b.inlineN; i++ {
			if b.inline[i].key == k {
				return b.inline[i].val, true
			}
		}
	case stateOverflow:
		for i := range b.overflow {
			if b.overflow[i].key == k {
				return b.overflow[i].val, true
			}
		}
	}
	var zero V
	return zero, false
}

// GetPtr returns a pointer to the stored value for in-place mutation, the
// Go analogue of get_mut. The pointer is only valid until the next Insert
// or Remove touches the same bucket.
func (m *Map[K, V]) GetPtr(k K) *V {
	b := m.bucketFor(k)
	switch b.state {
	case stateInline:
		for i := 0; i < b.inlineN; i++ {
			if b.inline[i].key == k {
				return &b.inline[i].val
			}
		}
	case stateOverflow:
		for i := range b.overflow {
			if b.overflow[i].key == k {
				return &b.overflow[i].val
			}
		}
	}
	return nil
}

// Remove deletes k, returning its value and whether it was present. An
// overflow bucket whose size drops to inlineCap or fewer is demoted back
// to Inline.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	b := m.bucketFor(k)
	var zero V
	switch b.state {
	case stateInline:
		for i := 0; i < b.inlineN; i++ {
			if b.inline[i].key == k {
				v := b.inline[i].val
				b.inline[i] = b.inline[b.inlineN-1]
				b.inline[b.inlineN-1] = entry[K, V]{}
				b.inlineN--
				if b.inlineN == 0 {
					b.state = stateEmpty
				}
				m.size--
				return v, true
			}
		}
	case stateOverflow:
		for i := range b.overflow {
			if b.overflow[i].key == k {
				v := b.overflow[i].val
				b.overflow = append(b.overflow[:i], b.overflow[i+1:]...)
				m.size--
				if len(b.overflow) <= inlineCap {
					b.inlineN = copy(b.inline[:], b.overflow)
					b.overflow = nil
					b.state = stateInline
					if b.inlineN == 0 {
						b.state = stateEmpty
					}
				}
				return v, true
			}
		}
	}
	return zero, false
}

// Update replaces the value for k in place, returning whether k existed.
// A non-existent key is a no-op (use Insert to create).
func (m *Map[K, V]) Update(k K, v V) bool {
	p := m.GetPtr(k)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// Entry provides the occupied/vacant view over a single key.
type Entry[K comparable, V any] struct {
	m   *Map[K, V]
	key K
}

// Entry returns an entry view for k.
func (m *Map[K, V]) Entry(k K) Entry[K, V] {
	return Entry[K, V]{m: m, key: k}
}

// OrInsert returns the existing value for the entry's key, inserting v if
// absent.
func (e Entry[K, V]) OrInsert(v V) V {
	if existing, ok := e.m.Get(e.key); ok {
		return existing
	}
	e.m.Insert(e.key, v)
	return v
}

// OrInsertWith is the lazy form of OrInsert: f is only called when the key
// is absent.
func (e Entry[K, V]) OrInsertWith(f func() V) V {
	if existing, ok := e.m.Get(e.key); ok {
		return existing
	}
	v := f()
	e.m.Insert(e.key, v)
	return v
}

// AndModify calls f with a pointer to the existing value, if present, and
// returns the entry for chaining.
func (e Entry[K, V]) AndModify(f func(*V)) Entry[K, V] {
	if p := e.m.GetPtr(e.key); p != nil {
		f(p)
	}
	return e
}

// Retain keeps only the entries for which keep returns true, demoting any
// Overflow bucket whose surviving size drops to inlineCap or fewer.
func (m *Map[K, V]) Retain(keep func(K, V) bool) {
	for bi := range m.buckets {
		b := &m.buckets[bi]
		switch b.state {
		case stateInline:
			w := 0
			for i := 0; i < b.inlineN; i++ {
				if keep(b.inline[i].key, b.inline[i].val) {
					b.inline[w] = b.inline[i]
					w++
				} else {
					m.size--
				}
			}
			for i := w; i < b.inlineN; i++ {
				b.inline[i] = entry[K, V]{}
			}
			b.inlineN = w
			if w == 0 {
				b.state = stateEmpty
			}
		case stateOverflow:
			w := 0
			for i := range b.overflow {
				if keep(b.overflow[i].key, b.overflow[i].val) {
					b.overflow[w] = b.overflow[i]
					w++
				} else {
					m.size--
				}
			}
			b.overflow = b.overflow[:w]
			if w <= inlineCap {
				b.inlineN = copy(b.inline[:], b.overflow)
				b.overflow = nil
				b.state = stateInline
				if w == 0 {
					b.state = stateEmpty
				}
			}
		}
	}
}

// Range calls f for every stored (key, value) pair in bucket order, which
// is not key order. Iteration stops early if f returns false.
func (m *Map[K, V]) Range(f func(K, V) bool) {
	for bi := range m.buckets {
		b := &m.buckets[bi]
		switch b.state {
		case stateInline:
			for i := 0; i < b.inlineN; i++ {
				if !f(b.inline[i].key, b.inline[i].val) {
					return
				}
			}
		case stateOverflow:
			for i := range b.overflow {
				if !f(b.overflow[i].key, b.overflow[i].val) {
					return
				}
			}
		}
	}
}

// Keys returns every stored key in bucket order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// CreateIndexFor builds a secondary map grouping this map's keys by a field
// extracted from each (key, value) pair, mirroring spec.md's
// create_index_for helper. n sizes the secondary map's own bucket array.
func CreateIndexFor[K comparable, V any, F comparable](m *Map[K, V], n int, hashFn func(F) uint64, extract func(K, V) F) *Map[F, []K] {
	out := New[F, []K](n, hashFn)
	m.Range(func(k K, v V) bool {
		f := extract(k, v)
		if p := out.GetPtr(f); p != nil {
			*p = append(*p, k)
		} else {
			out.Insert(f, []K{k})
		}
		return true
	})
	return out
}
