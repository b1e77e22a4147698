// Package index реализует точный (полный перебор) поиск ближайших соседей
// по косинусной близости над неизменяемым снапшотом составных векторов.
package index

import (
	"math"
	"sort"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/fusion"
	"github.com/ikarus-tech/reco-backend/pkg/e"
)

// Index — неизменяемое поколение индекса. После Build записи не мутируются,
// поэтому конкурентные поиски не требуют блокировок.
type Index struct {
	snapshotID string
	dim        int
	entries    []domain.IndexEntry // отсортированы по ProductID по возрастанию
	mags       []float64           // предвычисленные нормы составных векторов
	byID       map[string]int
}

// Build собирает индекс из записей одним проходом. Все составные векторы
// обязаны иметь одинаковую размерность, иначе возвращается e.ErrInvalidDimension.
func Build(snapshotID string, entries []domain.IndexEntry) (*Index, error) {
	const op = "index.Build"

	if len(entries) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	dim := len(entries[0].Composite)
	for i := range entries {
		if len(entries[i].Composite) != dim {
			return nil, e.Wrap(op, e.ErrInvalidDimension)
		}
	}

	// Записи с нечисловой нормой отбрасываются: NaN в score не упорядочивается
	// и ломает сортировку результатов поиска.
	sorted := make([]domain.IndexEntry, 0, len(entries))
	for i := range entries {
		mag := fusion.Norm(entries[i].Composite)
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			continue
		}
		sorted = append(sorted, entries[i])
	}
	if len(sorted) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Сортировка по ID даёт детерминированный порядок при равных score:
	// стабильная сортировка по score сохраняет возрастание ProductID.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})

	mags := make([]float64, len(sorted))
	byID := make(map[string]int, len(sorted))
	for i := range sorted {
		mags[i] = fusion.Norm(sorted[i].Composite)
		byID[sorted[i].ProductID] = i
	}

	return &Index{
		snapshotID: snapshotID,
		dim:        dim,
		entries:    sorted,
		mags:       mags,
		byID:       byID,
	}, nil
}

// SnapshotID возвращает идентификатор снапшота, из которого собран индекс.
func (i *Index) SnapshotID() string { return i.snapshotID }

// Dim возвращает размерность составных векторов индекса.
func (i *Index) Dim() int { return i.dim }

// Len возвращает число проиндексированных продуктов.
func (i *Index) Len() int { return len(i.entries) }

// Entries возвращает записи индекса для персистентного сохранения.
func (i *Index) Entries() []domain.IndexEntry { return i.entries }

// Composite возвращает предвычисленный составной вектор продукта.
func (i *Index) Composite(productID string) ([]float32, bool) {
	pos, ok := i.byID[productID]
	if !ok {
		return nil, false
	}
	return i.entries[pos].Composite, true
}

// Search возвращает не более topK продуктов, ранжированных по убыванию
// косинусной близости к запросу. Фильтр применяется до скоринга, поэтому topK
// выбирается из отфильтрованного множества. excludeID исключает продукт-источник
// при поиске «похожие на продукт X». При равных score порядок определяется
// возрастанием ProductID.
func (i *Index) Search(query []float32, topK int, filter *domain.SearchFilter, excludeID string) ([]domain.Scored, error) {
	const op = "index.Search"

	if topK <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}
	if len(query) != i.dim {
		return nil, e.Wrap(op, e.ErrInvalidDimension)
	}

	queryMag := fusion.Norm(query)

	scored := make([]domain.Scored, 0, len(i.entries))
	for pos := range i.entries {
		entry := &i.entries[pos]
		if entry.ProductID == excludeID {
			continue
		}
		if !filter.Matches(entry) {
			continue
		}

		scored = append(scored, domain.Scored{
			ProductID: entry.ProductID,
			Score:     cosineWithMags(query, entry.Composite, queryMag, i.mags[pos]),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

// cosineWithMags — косинус с уже известными нормами обоих векторов.
// Для нулевого вектора, как и для вектора с нечисловой нормой, близость
// определена как 0.
func cosineWithMags(query, vec []float32, queryMag, vecMag float64) float64 {
	if queryMag == 0 || vecMag == 0 || math.IsNaN(queryMag) || math.IsInf(queryMag, 0) || math.IsNaN(vecMag) {
		return 0
	}

	var dot float64
	for i := range query {
		dot += float64(query[i]) * float64(vec[i])
	}
	return dot / (queryMag * vecMag)
}
