package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/fusion"
	"github.com/ikarus-tech/reco-backend/internal/index"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
)

// RecommendUseCase реализует три режима поиска рекомендаций поверх общего
// неизменяемого индекса: по тексту, по продукту-образцу и по изображению.
// Состояния между вызовами нет; единственный разделяемый ресурс — handle
// текущего снапшота, читаемый без блокировок.
type RecommendUseCase struct {
	handle      *index.Handle
	embedder    EmbedderInfra
	images      ImageInfra
	productRepo ProductRepository
	cacheRepo   CacheRepository
	weights     fusion.Weights
	logger      logger.Logger
}

func NewRecommendUC(
	handle *index.Handle,
	embedder EmbedderInfra,
	images ImageInfra,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	weights fusion.Weights,
	logger logger.Logger,
) *RecommendUseCase {
	return &RecommendUseCase{
		handle:      handle,
		embedder:    embedder,
		images:      images,
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		weights:     weights,
		logger:      logger,
	}
}

// RecommendByText векторизует текст запроса, собирает из него составной вектор
// с нулевым сегментом изображения и ищет ближайшие продукты.
// Ошибка провайдера на запросе не маскируется нулевым вектором:
// возвращается e.ErrEmbeddingUnavailable.
func (r *RecommendUseCase) RecommendByText(ctx context.Context, req *TextQueryReq) (*RecommendRes, error) {
	const op = "RecommendUseCase.RecommendByText"

	if strings.TrimSpace(req.Query) == "" {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}
	if req.TopK <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	idx := r.handle.Current()
	if idx == nil {
		return nil, e.Wrap(op, e.ErrIndexNotBuilt)
	}

	vector, err := r.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		r.logger.Warnf("text query embedding failed: %v", err)
		return nil, e.Wrap(op, e.ErrEmbeddingUnavailable)
	}

	query, err := r.queryComposite(vector, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return r.search(ctx, idx, query, req.TopK, req.Filter, "")
}

// RecommendByProduct ищет продукты, похожие на заданный, по его предвычисленному
// составному вектору из текущего снапшота — без повторной векторизации.
// Продукт-источник в результаты не попадает.
func (r *RecommendUseCase) RecommendByProduct(ctx context.Context, req *ProductQueryReq) (*RecommendRes, error) {
	const op = "RecommendUseCase.RecommendByProduct"

	if req.ProductID == "" {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}
	if req.TopK <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	idx := r.handle.Current()
	if idx == nil {
		return nil, e.Wrap(op, e.ErrIndexNotBuilt)
	}

	query, ok := idx.Composite(req.ProductID)
	if !ok {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return r.search(ctx, idx, query, req.TopK, req.Filter, req.ProductID)
}

// RecommendByImage векторизует изображение (переданное байтами или ключом
// объекта в хранилище) и ищет по составному вектору с нулевым текстовым сегментом.
func (r *RecommendUseCase) RecommendByImage(ctx context.Context, req *ImageQueryReq) (*RecommendRes, error) {
	const op = "RecommendUseCase.RecommendByImage"

	if req.TopK <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	idx := r.handle.Current()
	if idx == nil {
		return nil, e.Wrap(op, e.ErrIndexNotBuilt)
	}

	data := req.Data
	if len(data) == 0 {
		if req.ObjectKey == "" {
			return nil, e.Wrap(op, e.ErrNoImage)
		}

		fetched, err := r.images.FetchImage(ctx, req.ObjectKey)
		if err != nil {
			r.logger.Warnf("image fetch failed, key=%s: %v", req.ObjectKey, err)
			return nil, e.Wrap(op, e.ErrEmbeddingUnavailable)
		}
		data = fetched
	}

	vector, err := r.embedder.EmbedImage(ctx, data)
	if err != nil {
		r.logger.Warnf("image query embedding failed: %v", err)
		return nil, e.Wrap(op, e.ErrEmbeddingUnavailable)
	}

	query, err := r.queryComposite(nil, vector)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return r.search(ctx, idx, query, req.TopK, req.Filter, "")
}

// queryComposite собирает составной вектор запроса по правилам слияния.
// Нулевой или пустой вектор от провайдера на запросе — это отказ провайдера,
// а не допустимая деградация, поэтому возвращается ErrEmbeddingUnavailable.
func (r *RecommendUseCase) queryComposite(text, image []float32) ([]float32, error) {
	composite, err := r.weights.Fuse(text, image)
	if err != nil {
		if errors.Is(err, e.ErrNoModalities) {
			return nil, e.ErrEmbeddingUnavailable
		}
		return nil, err
	}
	return composite, nil
}

// search выполняет поиск по индексу и обогащает результаты метаданными продуктов.
func (r *RecommendUseCase) search(ctx context.Context, idx *index.Index, query []float32, topK int, filter *domain.SearchFilter, excludeID string) (*RecommendRes, error) {
	const op = "RecommendUseCase.search"

	scored, err := idx.Search(query, topK, filter, excludeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items, err := r.hydrate(ctx, scored)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewRecommendRes(idx.SnapshotID(), items), nil
}

// hydrate дополняет ранжированные результаты метаданными продуктов:
// сначала кэш, затем БД для промахов с фоновым дозаполнением кэша.
func (r *RecommendUseCase) hydrate(ctx context.Context, scored []domain.Scored) ([]RankedItem, error) {
	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.ProductID
	}

	cached, err := r.cacheRepo.GetProducts(ctx, ids)
	if err != nil {
		cached = nil // промах всего кэша не фатален
	}

	var missing []string
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	fromDB := make(map[string]ProductInfo, len(missing))
	if len(missing) > 0 {
		infos, err := r.productRepo.GetProductsInfo(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			fromDB[info.ID] = info
		}

		// Фоновое дозаполнение кэша
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := r.cacheRepo.SetProducts(bgCtx, infos); err != nil {
				r.logger.Warnf("failed to cache products in background: %v", err)
			}
		}()
	}

	items := make([]RankedItem, 0, len(scored))
	for i, s := range scored {
		item := RankedItem{
			ProductID: s.ProductID,
			Score:     s.Score,
			Rank:      i + 1,
		}
		if info, ok := cached[s.ProductID]; ok {
			item.Product = &info
		} else if info, ok := fromDB[s.ProductID]; ok {
			item.Product = &info
		} else {
			r.logger.Warnf("product metadata missing for indexed product %s", s.ProductID)
		}
		items = append(items, item)
	}

	return items, nil
}
