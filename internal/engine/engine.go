// Package engine is the index core: document store, inverted index, and the
// level/service auxiliary indexes, wired together the way spec.md §4.6
// describes. The query executor lives alongside it in executor.go since both
// need the same private index state.
//
// Ground truth: original_source/src/logdb.rs's LogDB (upsert_log,
// update_log, evict_if_needed, cleanup_stale, remove_doc) for control flow,
// generalized to spec.md's richer contract: real content storage (the
// original's get_content is a placeholder stub; spec.md §4.2 requires the
// actual line), and level/service indexes built through bucketmap's
// CreateIndexFor helper rather than a linear docs scan.
package engine

import (
	"log"
	"time"

	"github.com/standardbeagle/logdex/internal/bucketmap"
	"github.com/standardbeagle/logdex/internal/config"
	"github.com/standardbeagle/logdex/internal/fasthash"
	"github.com/standardbeagle/logdex/internal/posting"
	"github.com/standardbeagle/logdex/internal/query"
	"github.com/standardbeagle/logdex/internal/tokenizer"
)

const (
	docsCapacity    = 50_000
	postingsCapacity = 40_000
	indexCapacity   = 40_000
	evictionSlack   = 512
)

// Document is one stored log line plus its tokenized descriptor and
// optional level/service metadata.
type Document struct {
	Tokens  []uint64
	Level   string
	Service string
	Content string
	Ts      uint64

	hasLevel   bool
	hasService bool
}

// Engine is the in-memory log index: document store, inverted index, and
// level/service auxiliary indexes. It is not safe for concurrent use; a
// caller that needs concurrency must serialize access itself (spec.md §5).
type Engine struct {
	docs     *bucketmap.Map[uint64, *Document]
	postings *bucketmap.Map[uint64, *posting.Posting]

	levelIndex   *bucketmap.Map[uint64, []uint64]
	serviceIndex *bucketmap.Map[uint64, []uint64]

	// vocab maps a word token's hash back to one observed spelling, so the
	// Fuzzy executor has something to run edit distance against. Populated
	// only for word tokens, never whitespace-run tokens.
	vocab *bucketmap.Map[uint64, string]

	nextID uint64

	maxPostings uint64
	staleSecs   uint64
}

func hashU64(k uint64) uint64 { return fasthash.HashU64(k) }

// New constructs an Engine with the fixed capacities spec.md §4.6 names and
// cfg's max_postings/stale_secs.
func New(cfg *config.Config) *Engine {
	return &Engine{
		docs:         bucketmap.New[uint64, *Document](docsCapacity, hashU64),
		postings:     bucketmap.New[uint64, *posting.Posting](postingsCapacity, hashU64),
		levelIndex:   bucketmap.New[uint64, []uint64](indexCapacity, hashU64),
		serviceIndex: bucketmap.New[uint64, []uint64](indexCapacity, hashU64),
		vocab:        bucketmap.New[uint64, string](indexCapacity, hashU64),
		maxPostings:  cfg.MaxPostings,
		staleSecs:    cfg.StaleSecs,
	}
}

func nowSecs() uint64 { return uint64(time.Now().Unix()) }

func buildDescriptor(content string, level, service *string) string {
	switch {
	case level != nil && service != nil:
		return "level " + *level + " service " + *service + " " + content
	case level != nil:
		return "level " + *level + " " + content
	case service != nil:
		return "service " + *service + " " + content
	default:
		return content
	}
}

// UpsertLog tokenizes content (prefixed by its level/service descriptor, if
// given), stores it under a freshly assigned DocId, adds that id to every
// token's posting, and updates the level/service auxiliary indexes.
func (e *Engine) UpsertLog(content string, level, service *string) uint64 {
	descriptor := buildDescriptor(content, level, service)
	hashes, bounds := tokenizer.Tokenize(descriptor)
	e.learnVocab(descriptor, hashes, bounds)

	doc := &Document{
		Tokens:  hashes,
		Content: content,
		Ts:      nowSecs(),
	}
	if level != nil {
		doc.Level = *level
		doc.hasLevel = true
	}
	if service != nil {
		doc.Service = *service
		doc.hasService = true
	}

	id := e.nextID
	e.nextID++
	e.docs.Insert(id, doc)

	for _, tok := range hashes {
		e.addToPosting(tok, id)
	}
	if doc.hasLevel {
		e.appendToIndex(e.levelIndex, fasthash.HashToken(doc.Level), id)
	}
	if doc.hasService {
		e.appendToIndex(e.serviceIndex, fasthash.HashToken(doc.Service), id)
	}

	e.evictIfNeeded()
	return id
}

// UpsertSimple is UpsertLog(content, nil, nil).
func (e *Engine) UpsertSimple(content string) uint64 {
	return e.UpsertLog(content, nil, nil)
}

// UpdateLog replaces doc_id's content/level/service, diffing the new token
// set against the old one so only the postings that actually changed are
// touched. Reports false if doc_id is unknown.
func (e *Engine) UpdateLog(id uint64, content string, level, service *string) bool {
	docPtr := e.docs.GetPtr(id)
	if docPtr == nil {
		return false
	}
	entry := *docPtr

	descriptor := buildDescriptor(content, level, service)
	newTokens, bounds := tokenizer.Tokenize(descriptor)
	e.learnVocab(descriptor, newTokens, bounds)

	if sameTokens(entry.Tokens, newTokens) {
		entry.Ts = nowSecs()
		return true
	}

	removed, added := diffTokens(entry.Tokens, newTokens)
	for _, tok := range removed {
		e.removeFromPosting(tok, id)
	}
	for _, tok := range added {
		e.addToPosting(tok, id)
	}

	if entry.hasLevel {
		e.removeFromIndex(e.levelIndex, fasthash.HashToken(entry.Level), id)
	}
	if entry.hasService {
		e.removeFromIndex(e.serviceIndex, fasthash.HashToken(entry.Service), id)
	}

	entry.Tokens = newTokens
	entry.Content = content
	entry.hasLevel = level != nil
	entry.hasService = service != nil
	if level != nil {
		entry.Level = *level
		e.appendToIndex(e.levelIndex, fasthash.HashToken(*level), id)
	} else {
		entry.Level = ""
	}
	if service != nil {
		entry.Service = *service
		e.appendToIndex(e.serviceIndex, fasthash.HashToken(*service), id)
	} else {
		entry.Service = ""
	}
	entry.Ts = nowSecs()

	return true
}

// GetContent returns the stored content for id, if present.
func (e *Engine) GetContent(id uint64) (string, bool) {
	doc, ok := e.docs.Get(id)
	if !ok {
		return "", false
	}
	return doc.Content, true
}

// Query parses q and executes it, returning matched ids in
// implementation-defined order.
func (e *Engine) Query(q string) []uint64 {
	ast := query.Parse(q)
	return e.exec(ast).Keys()
}

// QueryContent is Query joined back to each matched document's content.
func (e *Engine) QueryContent(q string) []string {
	ids := e.Query(q)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if doc, ok := e.docs.Get(id); ok {
			out = append(out, doc.Content)
		}
	}
	return out
}

// MetaResult is one row of QueryWithMeta's output.
type MetaResult struct {
	ID      uint64
	Content string
	Level   string
	Service string
	Ts      uint64
}

// QueryWithMeta is Query joined back to each matched document's full
// metadata.
func (e *Engine) QueryWithMeta(q string) []MetaResult {
	ids := e.Query(q)
	out := make([]MetaResult, 0, len(ids))
	for _, id := range ids {
		if doc, ok := e.docs.Get(id); ok {
			out = append(out, MetaResult{
				ID:      id,
				Content: doc.Content,
				Level:   doc.Level,
				Service: doc.Service,
				Ts:      doc.Ts,
			})
		}
	}
	return out
}

// CleanupStale removes every document whose age exceeds stale_secs,
// scrubbing its id out of every posting it touched and rebuilding the
// auxiliary indexes afterward.
func (e *Engine) CleanupStale() {
	now := nowSecs()
	var stale []uint64
	e.docs.Range(func(id uint64, doc *Document) bool {
		if now-doc.Ts > e.staleSecs {
			stale = append(stale, id)
		}
		return true
	})
	for _, id := range stale {
		e.removeDoc(id)
	}
	e.RebuildIndexes()
}

func (e *Engine) removeDoc(id uint64) {
	doc, ok := e.docs.Get(id)
	if !ok {
		return
	}
	for _, tok := range doc.Tokens {
		e.removeFromPosting(tok, id)
	}
	e.docs.Remove(id)
}

// RebuildIndexes reconstructs level_index and service_index from the
// current document store.
func (e *Engine) RebuildIndexes() {
	e.levelIndex = bucketmap.CreateIndexFor[uint64, *Document, uint64](
		e.docs, indexCapacity, hashU64,
		func(_ uint64, doc *Document) uint64 {
			if !doc.hasLevel {
				return 0
			}
			return fasthash.HashToken(doc.Level)
		},
	)
	e.serviceIndex = bucketmap.CreateIndexFor[uint64, *Document, uint64](
		e.docs, indexCapacity, hashU64,
		func(_ uint64, doc *Document) uint64 {
			if !doc.hasService {
				return 0
			}
			return fasthash.HashToken(doc.Service)
		},
	)
}

// UpsertToken reserves an empty posting for s if one does not already
// exist, returning its token hash.
func (e *Engine) UpsertToken(s string) uint64 {
	tok := fasthash.HashToken(s)
	if _, ok := e.postings.Get(tok); !ok {
		e.postings.Insert(tok, posting.New())
	}
	return tok
}

// ExportTokens returns every token currently present in the inverted index.
func (e *Engine) ExportTokens() []uint64 {
	return e.postings.Keys()
}

// ImportTokens reserves an empty posting for every token in toks that does
// not already have one.
func (e *Engine) ImportTokens(toks []uint64) {
	for _, tok := range toks {
		if _, ok := e.postings.Get(tok); !ok {
			e.postings.Insert(tok, posting.New())
		}
	}
}

func (e *Engine) addToPosting(tok, id uint64) {
	if p, ok := e.postings.Get(tok); ok {
		p.Add(id)
		return
	}
	p := posting.New()
	p.Add(id)
	e.postings.Insert(tok, p)
}

func (e *Engine) removeFromPosting(tok, id uint64) {
	p, ok := e.postings.Get(tok)
	if !ok {
		return
	}
	p.Remove(id)
	if p.IsEmpty() {
		e.postings.Remove(tok)
	}
}

func (e *Engine) appendToIndex(idx *bucketmap.Map[uint64, []uint64], key, id uint64) {
	idx.Entry(key).AndModify(func(v *[]uint64) {
		*v = append(*v, id)
	})
	if _, ok := idx.Get(key); !ok {
		idx.Insert(key, []uint64{id})
	}
}

func (e *Engine) removeFromIndex(idx *bucketmap.Map[uint64, []uint64], key, id uint64) {
	p := idx.GetPtr(key)
	if p == nil {
		return
	}
	out := (*p)[:0]
	for _, existing := range *p {
		if existing != id {
			out = append(out, existing)
		}
	}
	*p = out
}

// evictIfNeeded drops the oldest tokens' postings once the inverted index
// grows past max_postings, per spec.md §4.6: only the first referenced
// document of each posting is sampled to approximate its age.
func (e *Engine) evictIfNeeded() {
	if uint64(e.postings.Len()) <= e.maxPostings {
		return
	}
	over := uint64(e.postings.Len()) - e.maxPostings + evictionSlack

	candidates := make([]tokAge, 0, e.postings.Len())
	e.postings.Range(func(tok uint64, p *posting.Posting) bool {
		firstID, ok := p.FirstID()
		if !ok {
			return true
		}
		doc, ok := e.docs.Get(firstID)
		if !ok {
			return true
		}
		candidates = append(candidates, tokAge{tok, doc.Ts})
		return true
	})

	sortByTs(candidates)

	n := over
	if n > uint64(len(candidates)) {
		n = uint64(len(candidates))
	}
	for i := uint64(0); i < n; i++ {
		e.postings.Remove(candidates[i].tok)
	}
	log.Printf("logdex: evicted %d postings (size now %d)", n, e.postings.Len())
}

type tokAge struct {
	tok uint64
	ts  uint64
}

func sortByTs(items []tokAge) {
	// Insertion sort over every candidate, one per non-empty posting in the
	// inverted index; its cost is quadratic in the posting count.
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && items[j-1].ts > items[j].ts {
			items[j-1], items[j] = items[j], items[j-1]
			j--
		}
	}
}
