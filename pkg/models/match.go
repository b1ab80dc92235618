package models

// MatchRecord describes one file whose digest appeared in the known-hash set
type MatchRecord struct {
	Path            string     `json:"path"`
	Name            string     `json:"name"`
	Size            int64      `json:"size"`
	Times           Timestamps `json:"times"`
	PartitionIndex  int        `json:"partition_index"`
	PartitionOffset int64      `json:"partition_offset"`
	Algorithm       Algorithm  `json:"algorithm"`
	Hash            string     `json:"hash"`
	Digests         DigestSet  `json:"digests"`
}

// NewMatchRecord builds a match record for entry matched under algorithm a
func NewMatchRecord(entry *FileEntry, digests DigestSet, a Algorithm) MatchRecord {
	return MatchRecord{
		Path:            entry.Path,
		Name:            entry.Name,
		Size:            entry.Size,
		Times:           entry.Times,
		PartitionIndex:  entry.PartitionIndex,
		PartitionOffset: entry.PartitionOffset,
		Algorithm:       a,
		Hash:            digests.Get(a),
		Digests:         digests,
	}
}

// ResultCollector is an append-only, insertion-ordered list of match records
type ResultCollector struct {
	records []MatchRecord
}

// Append adds a record at the end of the collection
func (c *ResultCollector) Append(r MatchRecord) {
	c.records = append(c.records, r)
}

// Len returns the number of collected records
func (c *ResultCollector) Len() int {
	return len(c.records)
}

// Records returns a copy of the collected records in discovery order
func (c *ResultCollector) Records() []MatchRecord {
	out := make([]MatchRecord, len(c.records))
	copy(out, c.records)
	return out
}
