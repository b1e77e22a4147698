package index

import (
	"math"
	"testing"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, composite []float32, categories []string, price int64) domain.IndexEntry {
	return *domain.NewIndexEntry(id, composite, categories, price, true, true)
}

func testEntries() []domain.IndexEntry {
	return []domain.IndexEntry{
		entry("chair-1", []float32{1, 0, 0}, []string{"chairs"}, 10000),
		entry("chair-2", []float32{0.9, 0.1, 0}, []string{"chairs"}, 20000),
		entry("sofa-1", []float32{0, 1, 0}, []string{"sofas"}, 50000),
		entry("table-1", []float32{0, 0, 1}, []string{"tables"}, 30000),
	}
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build("snap-1", nil)
	require.ErrorIs(t, err, e.ErrNoProducts)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	entries := []domain.IndexEntry{
		entry("a", []float32{1, 0, 0}, nil, 0),
		entry("b", []float32{1, 0}, nil, 0),
	}

	_, err := Build("snap-1", entries)
	require.ErrorIs(t, err, e.ErrInvalidDimension)
}

func TestBuild_SkipsNaNVectors(t *testing.T) {
	nan := float32(math.NaN())
	entries := append(testEntries(), entry("broken-1", []float32{nan, 0, 0}, nil, 0))

	idx, err := Build("snap-1", entries)
	require.NoError(t, err)

	// Повреждённый вектор не попадает в индекс и не травит ранжирование.
	assert.Equal(t, 4, idx.Len())
	_, ok := idx.Composite("broken-1")
	assert.False(t, ok)

	scored, err := idx.Search([]float32{1, 0, 0}, 10, nil, "")
	require.NoError(t, err)
	require.Len(t, scored, 4)
	for _, s := range scored {
		assert.False(t, math.IsNaN(s.Score))
	}
}

func TestBuild_AllVectorsNaN(t *testing.T) {
	nan := float32(math.NaN())
	entries := []domain.IndexEntry{
		entry("a", []float32{nan, 0, 0}, nil, 0),
	}

	_, err := Build("snap-1", entries)
	require.ErrorIs(t, err, e.ErrNoProducts)
}

func TestSearch_NaNQueryScoresZero(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	scored, err := idx.Search([]float32{float32(math.NaN()), 0, 0}, 4, nil, "")
	require.NoError(t, err)
	require.Len(t, scored, 4)

	// Все score нулевые, порядок определяется возрастанием ProductID.
	for _, s := range scored {
		assert.Zero(t, s.Score)
	}
	assert.Equal(t, "chair-1", scored[0].ProductID)
	assert.Equal(t, "chair-2", scored[1].ProductID)
	assert.Equal(t, "sofa-1", scored[2].ProductID)
	assert.Equal(t, "table-1", scored[3].ProductID)
}

func TestBuild_Accessors(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	assert.Equal(t, "snap-1", idx.SnapshotID())
	assert.Equal(t, 3, idx.Dim())
	assert.Equal(t, 4, idx.Len())

	composite, ok := idx.Composite("sofa-1")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1, 0}, composite)

	_, ok = idx.Composite("unknown")
	assert.False(t, ok)
}

func TestSearch_RanksByScoreDescending(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	scored, err := idx.Search([]float32{1, 0, 0}, 4, nil, "")
	require.NoError(t, err)
	require.Len(t, scored, 4)

	assert.Equal(t, "chair-1", scored[0].ProductID)
	assert.Equal(t, "chair-2", scored[1].ProductID)
	for i := 1; i < len(scored); i++ {
		assert.LessOrEqual(t, scored[i].Score, scored[i-1].Score)
	}
}

func TestSearch_TiesBrokenByProductID(t *testing.T) {
	entries := []domain.IndexEntry{
		entry("c", []float32{1, 0}, nil, 0),
		entry("a", []float32{1, 0}, nil, 0),
		entry("b", []float32{1, 0}, nil, 0),
	}

	idx, err := Build("snap-1", entries)
	require.NoError(t, err)

	scored, err := idx.Search([]float32{1, 0}, 3, nil, "")
	require.NoError(t, err)
	require.Len(t, scored, 3)

	assert.Equal(t, "a", scored[0].ProductID)
	assert.Equal(t, "b", scored[1].ProductID)
	assert.Equal(t, "c", scored[2].ProductID)
}

func TestSearch_TopKTruncates(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	scored, err := idx.Search([]float32{1, 0, 0}, 2, nil, "")
	require.NoError(t, err)
	assert.Len(t, scored, 2)

	scored, err = idx.Search([]float32{1, 0, 0}, 100, nil, "")
	require.NoError(t, err)
	assert.Len(t, scored, 4)
}

func TestSearch_FilterAppliedBeforeScoring(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	filter := &domain.SearchFilter{Category: "chairs"}
	scored, err := idx.Search([]float32{0, 1, 0}, 10, filter, "")
	require.NoError(t, err)

	// topK выбирается из отфильтрованного множества: диваны отсекаются,
	// даже если их близость выше.
	require.Len(t, scored, 2)
	for _, s := range scored {
		assert.Contains(t, []string{"chair-1", "chair-2"}, s.ProductID)
	}
}

func TestSearch_PriceFilter(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	minPrice := int64(15000)
	maxPrice := int64(35000)
	filter := &domain.SearchFilter{PriceMin: &minPrice, PriceMax: &maxPrice}

	scored, err := idx.Search([]float32{1, 1, 1}, 10, filter, "")
	require.NoError(t, err)

	require.Len(t, scored, 2)
	for _, s := range scored {
		assert.Contains(t, []string{"chair-2", "table-1"}, s.ProductID)
	}
}

func TestSearch_ExcludesSourceProduct(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	scored, err := idx.Search([]float32{1, 0, 0}, 10, nil, "chair-1")
	require.NoError(t, err)

	require.Len(t, scored, 3)
	for _, s := range scored {
		assert.NotEqual(t, "chair-1", s.ProductID)
	}
}

func TestSearch_InvalidTopK(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0, 0}, 0, nil, "")
	assert.ErrorIs(t, err, e.ErrInvalidTopK)

	_, err = idx.Search([]float32{1, 0, 0}, -1, nil, "")
	assert.ErrorIs(t, err, e.ErrInvalidTopK)
}

func TestSearch_InvalidQueryDimension(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0}, 3, nil, "")
	assert.ErrorIs(t, err, e.ErrInvalidDimension)
}

func TestSearch_ZeroQueryScoresZero(t *testing.T) {
	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	scored, err := idx.Search([]float32{0, 0, 0}, 10, nil, "")
	require.NoError(t, err)
	require.Len(t, scored, 4)
	for _, s := range scored {
		assert.Zero(t, s.Score)
	}
}

func TestSearch_DeterministicAcrossRebuilds(t *testing.T) {
	// Одинаковый набор записей в разном порядке даёт одинаковую выдачу.
	forward := testEntries()
	reversed := make([]domain.IndexEntry, len(forward))
	for i := range forward {
		reversed[len(forward)-1-i] = forward[i]
	}

	idxA, err := Build("snap-a", forward)
	require.NoError(t, err)
	idxB, err := Build("snap-b", reversed)
	require.NoError(t, err)

	query := []float32{0.5, 0.5, 0}
	scoredA, err := idxA.Search(query, 4, nil, "")
	require.NoError(t, err)
	scoredB, err := idxB.Search(query, 4, nil, "")
	require.NoError(t, err)

	assert.Equal(t, scoredA, scoredB)
}

func TestHandle_SwapAndCurrent(t *testing.T) {
	h := NewHandle()
	assert.Nil(t, h.Current())

	idx, err := Build("snap-1", testEntries())
	require.NoError(t, err)

	h.Swap(idx)
	assert.Same(t, idx, h.Current())

	next, err := Build("snap-2", testEntries())
	require.NoError(t, err)

	h.Swap(next)
	assert.Same(t, next, h.Current())
}
