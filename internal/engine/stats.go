package engine

// Stats is a point-in-time snapshot of the index's size, mirroring the
// original implementation's LogDB::stats.
type Stats struct {
	DocCount     int
	PostingCount int
	EstMemKB     float64
}

// Stats reports the current document count, posting count, and a rough
// memory estimate (8 bytes per posting entry plus 64 bytes per document,
// the same back-of-envelope figure the original implementation used).
func (e *Engine) Stats() Stats {
	docCount := e.docs.Len()
	postingCount := e.postings.Len()
	return Stats{
		DocCount:     docCount,
		PostingCount: postingCount,
		EstMemKB:     float64(postingCount*8+docCount*64) / 1024.0,
	}
}
