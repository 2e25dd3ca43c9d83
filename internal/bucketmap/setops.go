package bucketmap

// Empty is the value type of a result set: a map used purely for its keys.
type Empty = struct{}

// Set is a Map used purely for membership; IntersectWith, UnionWith and
// FastDifference all return one.
type Set[K comparable] = Map[K, Empty]

// NewSet allocates an empty result set with n buckets.
func NewSet[K comparable](n int, hashFn func(K) uint64) *Set[K] {
	return New[K, Empty](n, hashFn)
}

// IntersectWith returns the keys present in both a and b. Complexity is
// linear in the smaller operand: whichever map has fewer entries is walked
// and probed against the other, so AND cost tracks the smallest operand
// regardless of argument order.
func IntersectWith[K comparable, V1, V2 any](a *Map[K, V1], b *Map[K, V2], n int, hashFn func(K) uint64) *Set[K] {
	out := NewSet[K](n, hashFn)
	if a.Len() <= b.Len() {
		a.Range(func(k K, _ V1) bool {
			if _, ok := b.Get(k); ok {
				out.Insert(k, Empty{})
			}
			return true
		})
		return out
	}
	b.Range(func(k K, _ V2) bool {
		if _, ok := a.Get(k); ok {
			out.Insert(k, Empty{})
		}
		return true
	})
	return out
}

// UnionWith returns the keys present in either a or b.
func UnionWith[K comparable, V1, V2 any](a *Map[K, V1], b *Map[K, V2], n int, hashFn func(K) uint64) *Set[K] {
	out := NewSet[K](n, hashFn)
	a.Range(func(k K, _ V1) bool {
		out.Insert(k, Empty{})
		return true
	})
	b.Range(func(k K, _ V2) bool {
		out.Insert(k, Empty{})
		return true
	})
	return out
}

// FastDifference returns the keys present in a but not in b.
func FastDifference[K comparable, V1, V2 any](a *Map[K, V1], b *Map[K, V2], n int, hashFn func(K) uint64) *Set[K] {
	out := NewSet[K](n, hashFn)
	a.Range(func(k K, _ V1) bool {
		if _, ok := b.Get(k); !ok {
			out.Insert(k, Empty{})
		}
		return true
	})
	return out
}
