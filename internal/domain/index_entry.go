package domain

// IndexEntry связывает продукт с его составным вектором и денормализованными
// метаданными для фильтрации, чтобы поиск не ходил в хранилище продуктов.
type IndexEntry struct {
	ProductID  string
	Composite  []float32
	Categories []string
	Price      int64
	HasText    bool
	HasImage   bool
}

func NewIndexEntry(productID string, composite []float32, categories []string, price int64, hasText, hasImage bool) *IndexEntry {
	return &IndexEntry{
		ProductID:  productID,
		Composite:  composite,
		Categories: categories,
		Price:      price,
		HasText:    hasText,
		HasImage:   hasImage,
	}
}

// MatchesCategory проверяет принадлежность продукта категории.
// Пустая категория означает отсутствие фильтра.
func (e *IndexEntry) MatchesCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range e.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Scored — продукт с близостью к запросу.
type Scored struct {
	ProductID string
	Score     float64
}
