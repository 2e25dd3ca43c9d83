// Package query parses logdex query strings into an executable AST.
//
// Ground truth: spec.md §4.7 and original_source/src/query.rs's parse_query,
// ported field-for-field including its specific OR/NOT token-consumption
// quirks (OR rebuilds the prior node as a two-child Or whose right child is
// always a bare Term, regardless of the next token's own syntax; NOT always
// wraps a bare Term). Execution lives in internal/engine, which is the only package that
// holds index state to resolve a Node against.
package query

// Node is one AST node produced by Parse.
type Node interface {
	isNode()
}

// Term is a single bare word.
type Term struct{ Word string }

// Phrase is a multi-word sequence matched via the rolling phrase hash.
type Phrase struct{ Text string }

// FieldTerm is a `field:value` clause for any field other than contains,
// phrase, fuzzy, regex and timestamp.
type FieldTerm struct {
	Field string
	Value string
}

// NumericRange is the parsed form of `timestamp:...`.
type NumericRange struct {
	Field    string
	Lo, Hi   uint64
}

// Contains is `contains:value`.
type Contains struct{ Word string }

// NGram is reserved; the executor returns no results for it.
type NGram struct{ Words []string }

// Fuzzy is `fuzzy:word~distance`.
type Fuzzy struct {
	Word     string
	Distance uint8
}

// Regex is reserved; the executor returns no results for it.
type Regex struct{ Pattern string }

// And folds two or more top-level clauses (the default join).
type And struct{ Children []Node }

// Or is `A OR B`.
type Or struct{ Children []Node }

// Not is `NOT X`.
type Not struct{ Child Node }

func (Term) isNode()         {}
func (Phrase) isNode()       {}
func (FieldTerm) isNode()    {}
func (NumericRange) isNode() {}
func (Contains) isNode()     {}
func (NGram) isNode()        {}
func (Fuzzy) isNode()        {}
func (Regex) isNode()        {}
func (And) isNode()          {}
func (Or) isNode()           {}
func (Not) isNode()          {}
