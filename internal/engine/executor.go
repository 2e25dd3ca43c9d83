package engine

import (
	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/logdex/internal/bucketmap"
	"github.com/standardbeagle/logdex/internal/fasthash"
	"github.com/standardbeagle/logdex/internal/query"
	"github.com/standardbeagle/logdex/internal/tokenizer"
)

// exec resolves a parsed query.Node against the current index state,
// returning matched ids as a bucketmap.Set so And/Or/Not can use the map's
// native set-algebra primitives (spec.md §4.8 requires AND/OR/NOT stay
// linear in the smaller operand).
func (e *Engine) exec(node query.Node) *bucketmap.Set[uint64] {
	switch n := node.(type) {
	case query.Term:
		return e.postingSet(fasthash.HashToken(n.Word))

	case query.Contains:
		return e.postingSet(fasthash.HashToken(n.Word))

	case query.Phrase:
		return e.postingSet(tokenizer.PhraseHash(n.Text))

	case query.FieldTerm:
		switch n.Field {
		case "level":
			return e.idSet(e.levelIndex, fasthash.HashToken(n.Value))
		case "service":
			return e.idSet(e.serviceIndex, fasthash.HashToken(n.Value))
		default:
			a := e.postingSet(fasthash.HashToken(n.Field))
			b := e.postingSet(fasthash.HashToken(n.Value))
			return bucketmap.IntersectWith[uint64, bucketmap.Empty, bucketmap.Empty](a, b, indexCapacity, hashU64)
		}

	case query.NumericRange:
		return e.rangeSet(n.Lo, n.Hi)

	case query.Fuzzy:
		return e.fuzzySet(n.Word, n.Distance)

	case query.NGram, query.Regex:
		return bucketmap.NewSet[uint64](4, hashU64)

	case query.And:
		if len(n.Children) == 0 {
			return bucketmap.NewSet[uint64](4, hashU64)
		}
		acc := e.exec(n.Children[0])
		for _, child := range n.Children[1:] {
			if acc.Len() == 0 {
				break
			}
			acc = bucketmap.IntersectWith[uint64, bucketmap.Empty, bucketmap.Empty](acc, e.exec(child), indexCapacity, hashU64)
		}
		return acc

	case query.Or:
		if len(n.Children) == 0 {
			return bucketmap.NewSet[uint64](4, hashU64)
		}
		acc := e.exec(n.Children[0])
		for _, child := range n.Children[1:] {
			acc = bucketmap.UnionWith[uint64, bucketmap.Empty, bucketmap.Empty](acc, e.exec(child), indexCapacity, hashU64)
		}
		return acc

	case query.Not:
		excl := e.exec(n.Child)
		all := e.allDocIDs()
		return bucketmap.FastDifference[uint64, bucketmap.Empty, bucketmap.Empty](all, excl, indexCapacity, hashU64)

	default:
		return bucketmap.NewSet[uint64](4, hashU64)
	}
}

func (e *Engine) postingSet(tok uint64) *bucketmap.Set[uint64] {
	p, ok := e.postings.Get(tok)
	if !ok {
		return bucketmap.NewSet[uint64](4, hashU64)
	}
	return p.ToSet()
}

func (e *Engine) idSet(idx *bucketmap.Map[uint64, []uint64], key uint64) *bucketmap.Set[uint64] {
	out := bucketmap.NewSet[uint64](4, hashU64)
	ids, ok := idx.Get(key)
	if !ok {
		return out
	}
	for _, id := range ids {
		out.Insert(id, bucketmap.Empty{})
	}
	return out
}

func (e *Engine) rangeSet(lo, hi uint64) *bucketmap.Set[uint64] {
	out := bucketmap.NewSet[uint64](indexCapacity, hashU64)
	e.docs.Range(func(id uint64, doc *Document) bool {
		if doc.Ts >= lo && doc.Ts <= hi {
			out.Insert(id, bucketmap.Empty{})
		}
		return true
	})
	return out
}

func (e *Engine) allDocIDs() *bucketmap.Set[uint64] {
	out := bucketmap.NewSet[uint64](docsCapacity, hashU64)
	e.docs.Range(func(id uint64, _ *Document) bool {
		out.Insert(id, bucketmap.Empty{})
		return true
	})
	return out
}

// fuzzySet matches word against every known vocabulary spelling within the
// given Levenshtein edit distance, then unions together the postings of
// every token that matched.
func (e *Engine) fuzzySet(word string, distance uint8) *bucketmap.Set[uint64] {
	out := bucketmap.NewSet[uint64](4, hashU64)
	e.vocab.Range(func(tok uint64, spelling string) bool {
		d := edlib.LevenshteinDistance(word, spelling)
		if uint8(d) <= distance {
			if p, ok := e.postings.Get(tok); ok {
				p.ToSet().Range(func(id uint64, _ bucketmap.Empty) bool {
					out.Insert(id, bucketmap.Empty{})
					return true
				})
			}
		}
		return true
	})
	return out
}
