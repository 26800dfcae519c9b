package dataset

import (
	"errors"
	"log"

	"github.com/aldo-g/earliest-elephant/typedef"
)

// Index maps entity ids and region keys to their sighting record.
type Index struct {
	byID  map[string]typedef.SightingRecord
	order []string
}

// NewIndex binds records by identifier. When an identifier repeats, the later record wins.
// Records without an identifier are ignored and records without a story are dropped.
func NewIndex(records []typedef.SightingRecord) *Index {
	idx := &Index{byID: make(map[string]typedef.SightingRecord, len(records))}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			if !errors.Is(err, typedef.ErrRecordIDEmpty) {
				log.Printf("[DATASET] Dropping sighting %s (entry %d): %v", rec.ID, i, err)
			}
			continue
		}
		if _, seen := idx.byID[rec.ID]; !seen {
			idx.order = append(idx.order, rec.ID)
		}
		idx.byID[rec.ID] = rec
	}
	return idx
}

// Lookup returns the record bound to id.
func (idx *Index) Lookup(id string) (typedef.SightingRecord, bool) {
	if idx == nil {
		return typedef.SightingRecord{}, false
	}
	rec, ok := idx.byID[id]
	return rec, ok
}

// Len is the number of distinct identifiers.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byID)
}

// IDs lists the bound identifiers in first-seen order.
func (idx *Index) IDs() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}
