package engine

import (
	"testing"

	"github.com/standardbeagle/logdex/internal/query"
	"github.com/stretchr/testify/assert"
)

func TestQuery_FuzzyMatchesWithinDistance(t *testing.T) {
	e := newTestEngine()
	id := e.UpsertSimple("connection refused")

	results := e.Query("fuzzy:connecton~2")
	assert.Contains(t, results, id)
}

func TestQuery_FuzzyExcludesTooFarSpellings(t *testing.T) {
	e := newTestEngine()
	e.UpsertSimple("connection refused")

	results := e.Query("fuzzy:zzzzzzzzzz~1")
	assert.Empty(t, results)
}

func TestQuery_RegexAndNGramReturnEmpty(t *testing.T) {
	e := newTestEngine()
	e.UpsertSimple("anything at all")

	assert.Empty(t, e.Query("regex:.*"))
	// The parser never produces NGram, so it is executed directly.
	assert.Zero(t, e.exec(query.NGram{Words: []string{"anything", "at"}}).Len())
}

// TestPhraseQuery_AsymmetryIsExplicit documents that phrase queries do not
// match multi-word content tokenized word-by-word at ingest time: nothing
// folds a per-document rolling phrase hash into the postings, so
// PhraseHash(query) only ever finds a hit when some already-indexed token's
// hash happens to equal it.
func TestPhraseQuery_AsymmetryIsExplicit(t *testing.T) {
	e := newTestEngine()
	e.UpsertSimple("connection refused by peer")

	results := e.Query(`phrase:"connection refused"`)
	assert.Empty(t, results)
}

func TestQuery_OrUnionsTwoTerms(t *testing.T) {
	e := newTestEngine()
	a := e.UpsertSimple("apples only")
	b := e.UpsertSimple("bananas only")
	e.UpsertSimple("neither fruit")

	results := e.Query("apples OR bananas")
	assert.Contains(t, results, a)
	assert.Contains(t, results, b)
}
