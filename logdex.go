// Package logdex is an in-memory full-text search engine specialized for
// indexing and querying log lines: a tokenizer producing 64-bit token
// hashes, an inverted index with level/service auxiliary lookups, a small
// query language (AND/OR/NOT/phrase/field/range/fuzzy), and a delta codec
// for shipping token updates over the wire.
//
// Index is not safe for concurrent use (spec.md §5); callers that need
// concurrency must serialize access themselves.
package logdex

import (
	"github.com/google/uuid"

	"github.com/standardbeagle/logdex/internal/codec"
	"github.com/standardbeagle/logdex/internal/config"
	"github.com/standardbeagle/logdex/internal/engine"
)

// Entry is one row of QueryWithMeta's result.
type Entry struct {
	ID      uint64
	Content string
	Level   string
	Service string
	Ts      uint64
}

// Stats is a point-in-time snapshot of index size.
type Stats = engine.Stats

// Index is the public, in-process entry point: a log line index plus its
// query engine.
type Index struct {
	engine     *engine.Engine
	config     *config.Config
	instanceID uuid.UUID
}

// EngineOption configures an Index at construction time.
type EngineOption func(*Index)

// WithInstanceID assigns an explicit correlation id to the Index, useful
// when a caller runs several indexes and wants to tag log lines or metrics
// with which one they came from. Neither ingestion nor query paths consult
// it; it exists purely for caller-side bookkeeping. A random v4 id is
// assigned if this option is not given.
func WithInstanceID(id uuid.UUID) EngineOption {
	return func(idx *Index) { idx.instanceID = id }
}

// WithConfig overrides the default configuration (max_postings, stale_secs,
// and so on).
func WithConfig(cfg *config.Config) EngineOption {
	return func(idx *Index) { idx.config = cfg }
}

// New constructs an Index with default configuration, or as overridden by
// opts.
func New(opts ...EngineOption) *Index {
	idx := &Index{
		config:     config.Default(),
		instanceID: uuid.New(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.engine = engine.New(idx.config)
	return idx
}

// NewFromConfigFile loads a ".logdex.kdl" file at path, falling back to
// defaults if it does not exist, and constructs an Index from it.
func NewFromConfigFile(path string, opts ...EngineOption) (*Index, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(append([]EngineOption{WithConfig(cfg)}, opts...)...), nil
}

// InstanceID returns this Index's correlation id.
func (idx *Index) InstanceID() uuid.UUID { return idx.instanceID }

// UpsertLog tokenizes and stores content, with optional level/service
// metadata, returning the newly assigned document id.
func (idx *Index) UpsertLog(content string, level, service *string) uint64 {
	return idx.engine.UpsertLog(content, level, service)
}

// UpsertSimple is UpsertLog(content, nil, nil).
func (idx *Index) UpsertSimple(content string) uint64 {
	return idx.engine.UpsertSimple(content)
}

// UpdateLog replaces an existing document's content/level/service,
// reporting false if id is unknown.
func (idx *Index) UpdateLog(id uint64, content string, level, service *string) bool {
	return idx.engine.UpdateLog(id, content, level, service)
}

// GetContent returns the stored content for id, if present.
func (idx *Index) GetContent(id uint64) (string, bool) {
	return idx.engine.GetContent(id)
}

// Query parses and executes q, returning matched document ids.
func (idx *Index) Query(q string) []uint64 {
	return idx.engine.Query(q)
}

// QueryContent is Query joined back to content.
func (idx *Index) QueryContent(q string) []string {
	return idx.engine.QueryContent(q)
}

// QueryWithMeta is Query joined back to full document metadata.
func (idx *Index) QueryWithMeta(q string) []Entry {
	rows := idx.engine.QueryWithMeta(q)
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{ID: r.ID, Content: r.Content, Level: r.Level, Service: r.Service, Ts: r.Ts}
	}
	return out
}

// CleanupStale removes every document older than the configured
// stale_secs, along with any posting entries that only referenced them.
func (idx *Index) CleanupStale() {
	idx.engine.CleanupStale()
}

// RebuildIndexes reconstructs the level and service auxiliary indexes from
// the current document store.
func (idx *Index) RebuildIndexes() {
	idx.engine.RebuildIndexes()
}

// UpsertToken reserves an empty posting for s, returning its token hash.
func (idx *Index) UpsertToken(s string) uint64 {
	return idx.engine.UpsertToken(s)
}

// ExportTokens returns every token currently present in the inverted index.
func (idx *Index) ExportTokens() []uint64 {
	return idx.engine.ExportTokens()
}

// ImportTokens reserves an empty posting for every token in toks that does
// not already have one.
func (idx *Index) ImportTokens(toks []uint64) {
	idx.engine.ImportTokens(toks)
}

// RegisterService assigns name a sequential id, idempotently.
func (idx *Index) RegisterService(name string) uint8 {
	return idx.config.RegisterService(name)
}

// Stats reports the index's current size.
func (idx *Index) Stats() Stats {
	return idx.engine.Stats()
}

// EncodeFull serializes doc_id's complete token list as a FULL wire frame.
func EncodeFull(docID uint64, tokens []uint64) []byte {
	return codec.EncodeFull(docID, tokens)
}

// EncodeDiff serializes a DIFF wire frame carrying the tokens removed and
// added for doc_id since the previous frame.
func EncodeDiff(docID uint64, removed, added []uint64) []byte {
	return codec.EncodeDiff(docID, removed, added)
}

// DecodeFrame parses a single FULL or DIFF frame from the front of buf.
func DecodeFrame(buf []byte) (codec.Frame, error) {
	return codec.Decode(buf)
}
