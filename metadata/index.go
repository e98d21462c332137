package metadata

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Index is an inverted index over payloads: field -> value key -> bitmap of
// point IDs. It narrows the candidate set of a filtered search before the
// filter itself is evaluated.
//
// Index is not safe for concurrent mutation; the owning collection guards
// it with its own lock.
type Index struct {
	inverted map[string]map[string]*roaring64.Bitmap
}

// NewIndex creates an empty inverted index.
func NewIndex() *Index {
	return &Index{
		inverted: make(map[string]map[string]*roaring64.Bitmap),
	}
}

// Add indexes doc under id.
func (ix *Index) Add(id uint64, doc Document) {
	for key, value := range doc {
		valueMap, ok := ix.inverted[key]
		if !ok {
			valueMap = make(map[string]*roaring64.Bitmap)
			ix.inverted[key] = valueMap
		}

		valueKey := value.Key()
		bitmap, ok := valueMap[valueKey]
		if !ok {
			bitmap = roaring64.New()
			valueMap[valueKey] = bitmap
		}
		bitmap.Add(id)
	}
}

// Remove drops the postings of doc for id. doc must be the document that
// was previously added for id.
func (ix *Index) Remove(id uint64, doc Document) {
	for key, value := range doc {
		valueMap, ok := ix.inverted[key]
		if !ok {
			continue
		}

		valueKey := value.Key()
		bitmap, ok := valueMap[valueKey]
		if !ok {
			continue
		}

		bitmap.Remove(id)

		if bitmap.IsEmpty() {
			delete(valueMap, valueKey)
			if len(valueMap) == 0 {
				delete(ix.inverted, key)
			}
		}
	}
}

// Replace swaps the postings of old for those of doc.
func (ix *Index) Replace(id uint64, old, doc Document) {
	ix.Remove(id, old)
	ix.Add(id, doc)
}

// Candidates returns the IDs that may satisfy f.
//
// The result is a superset of the true matches (numeric keys can collide),
// so callers must still evaluate f against each candidate. A nil result
// with ok == false means f is empty and every point is a candidate.
func (ix *Index) Candidates(f *Filter) (bm *roaring64.Bitmap, ok bool) {
	if f.IsEmpty() {
		return nil, false
	}

	var result *roaring64.Bitmap
	for _, c := range f.Conditions {
		posting := ix.posting(c.Key, c.Value)
		if posting == nil {
			return roaring64.New(), true
		}
		if result == nil {
			result = posting.Clone()
		} else {
			result.And(posting)
		}

		// Early termination if result is empty
		if result.IsEmpty() {
			return result, true
		}
	}
	return result, true
}

func (ix *Index) posting(key string, value Value) *roaring64.Bitmap {
	valueMap, ok := ix.inverted[key]
	if !ok {
		return nil
	}
	return valueMap[value.Key()]
}

// Stats describes the size of the index.
type Stats struct {
	FieldCount       int    // Number of indexed fields
	BitmapCount      int    // Total number of bitmaps
	TotalCardinality uint64 // Sum of all bitmap cardinalities
	MemoryBytes      uint64 // Serialized bitmap size
}

// GetStats returns statistics about the index.
func (ix *Index) GetStats() Stats {
	stats := Stats{FieldCount: len(ix.inverted)}
	for _, valueMap := range ix.inverted {
		for _, bitmap := range valueMap {
			stats.BitmapCount++
			stats.TotalCardinality += bitmap.GetCardinality()
			stats.MemoryBytes += bitmap.GetSizeInBytes()
		}
	}
	return stats
}
