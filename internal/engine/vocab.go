package engine

import "github.com/standardbeagle/logdex/internal/tokenizer"

// learnVocab records one observed spelling per word token hash, skipping
// whitespace-run tokens (the spelling of those is synthetic and carries no
// query-time meaning). The Fuzzy executor walks this map to find
// edit-distance matches; a hash collision keeps whichever spelling was
// learned first, so later spellings sharing that hash are never compared
// against the query themselves.
func (e *Engine) learnVocab(descriptor string, hashes []uint64, bounds []tokenizer.Bounds) {
	for i, tok := range hashes {
		b := bounds[i]
		word := descriptor[b.Start:b.End]
		if word == "" || isWhitespaceRun(word) {
			continue
		}
		if _, ok := e.vocab.Get(tok); !ok {
			e.vocab.Insert(tok, word)
		}
	}
}

func isWhitespaceRun(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return false
		}
	}
	return true
}
