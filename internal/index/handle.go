package index

import "sync/atomic"

// Handle хранит текущее обслуживаемое поколение индекса.
// Пересборка подменяет указатель атомарно: идущие поиски дочитывают
// прежний неизменяемый снапшот, новые берут свежий. Блокировок нет.
type Handle struct {
	current atomic.Pointer[Index]
}

func NewHandle() *Handle {
	return &Handle{}
}

// Current возвращает обслуживаемый индекс или nil, если он ещё не собран.
func (h *Handle) Current() *Index {
	return h.current.Load()
}

// Swap атомарно подменяет обслуживаемое поколение индекса.
func (h *Handle) Swap(idx *Index) {
	h.current.Store(idx)
}
