package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCandidates(t *testing.T) {
	ix := NewIndex()
	ix.Add(1, Document{"city": String("Berlin"), "rank": Int(1)})
	ix.Add(2, Document{"city": String("London"), "rank": Int(2)})
	ix.Add(3, Document{"city": String("London"), "rank": Float(3)})

	t.Run("Empty", func(t *testing.T) {
		bm, ok := ix.Candidates(nil)
		assert.False(t, ok)
		assert.Nil(t, bm)
	})

	t.Run("Single", func(t *testing.T) {
		bm, ok := ix.Candidates(NewFilter(Eq("city", "London")))
		require.True(t, ok)
		assert.Equal(t, []uint64{2, 3}, bm.ToArray())
	})

	t.Run("Conjunction", func(t *testing.T) {
		bm, ok := ix.Candidates(NewFilter(Eq("city", "London"), Eq("rank", 3)))
		require.True(t, ok)
		assert.Equal(t, []uint64{3}, bm.ToArray())
	})

	t.Run("UnknownValue", func(t *testing.T) {
		bm, ok := ix.Candidates(NewFilter(Eq("city", "Paris")))
		require.True(t, ok)
		assert.True(t, bm.IsEmpty())
	})

	t.Run("UnknownKey", func(t *testing.T) {
		bm, ok := ix.Candidates(NewFilter(Eq("country", "UK")))
		require.True(t, ok)
		assert.True(t, bm.IsEmpty())
	})

	t.Run("DoesNotMutatePostings", func(t *testing.T) {
		_, _ = ix.Candidates(NewFilter(Eq("city", "London"), Eq("rank", 2)))
		bm, _ := ix.Candidates(NewFilter(Eq("city", "London")))
		assert.Equal(t, uint64(2), bm.GetCardinality())
	})
}

func TestIndexReplaceAndRemove(t *testing.T) {
	ix := NewIndex()
	old := Document{"city": String("Berlin")}
	ix.Add(1, old)

	ix.Replace(1, old, Document{"city": String("Paris")})

	bm, _ := ix.Candidates(NewFilter(Eq("city", "Berlin")))
	assert.True(t, bm.IsEmpty())
	bm, _ = ix.Candidates(NewFilter(Eq("city", "Paris")))
	assert.Equal(t, []uint64{1}, bm.ToArray())

	ix.Remove(1, Document{"city": String("Paris")})
	stats := ix.GetStats()
	assert.Equal(t, 0, stats.FieldCount)
	assert.Equal(t, 0, stats.BitmapCount)
}

func TestIndexStats(t *testing.T) {
	ix := NewIndex()
	ix.Add(1, Document{"city": String("Berlin"), "rank": Int(1)})
	ix.Add(2, Document{"city": String("Berlin")})

	stats := ix.GetStats()
	assert.Equal(t, 2, stats.FieldCount)
	assert.Equal(t, 2, stats.BitmapCount)
	assert.Equal(t, uint64(3), stats.TotalCardinality)
	assert.Greater(t, stats.MemoryBytes, uint64(0))
}
