package http

import (
	"net/http"

	"github.com/ikarus-tech/reco-backend/internal/usecase"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
)

type SnapshotHandler struct {
	snapshotUsecase usecase.SnapshotUC
	logger          logger.Logger
}

func NewSnapshotHandler(snapshotUsecase usecase.SnapshotUC, logger logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{snapshotUsecase: snapshotUsecase, logger: logger}
}

type snapshotBody struct {
	SnapshotID   string `json:"snapshot_id"`
	ProductCount int    `json:"product_count"`
	IndexedCount int    `json:"indexed_count"`
	SkippedCount int    `json:"skipped_count"`
}

// rebuild
//
//	@Summary		Пересборка снапшота индекса
//	@Description	Загружает каталог, векторизует продукты и атомарно подменяет активный индекс
//	@Tags			snapshots
//	@Produce		json
//	@Success		201	{object}	snapshotBody	"Новый снапшот построен"
//	@Failure		409	{object}	ErrorResponse	"Сборка прервана: слишком много продуктов без эмбеддингов"
//	@Failure		500	{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/snapshots/rebuild [post]
func (h *SnapshotHandler) rebuild(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshotUsecase.Rebuild(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &snapshotBody{
		SnapshotID:   snapshot.ID,
		ProductCount: snapshot.ProductCount,
		IndexedCount: snapshot.IndexedCount,
		SkippedCount: snapshot.SkippedCount,
	})
}
