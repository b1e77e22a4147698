package domain

// SearchFilter ограничивает множество кандидатов до скоринга.
// Пустая категория и nil-границы цены означают отсутствие ограничения.
type SearchFilter struct {
	Category string
	PriceMin *int64
	PriceMax *int64
}

// Matches проверяет запись индекса на соответствие фильтру.
func (f *SearchFilter) Matches(entry *IndexEntry) bool {
	if f == nil {
		return true
	}
	if !entry.MatchesCategory(f.Category) {
		return false
	}
	if f.PriceMin != nil && entry.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && entry.Price > *f.PriceMax {
		return false
	}
	return true
}
