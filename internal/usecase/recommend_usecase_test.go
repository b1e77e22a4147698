package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/fusion"
	"github.com/ikarus-tech/reco-backend/internal/index"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- фейки ---

// fakeEmbedder защищён мьютексом: сборка каталога векторизует
// продукты конкурентно.
type fakeEmbedder struct {
	mu        sync.Mutex
	textVec   []float32
	imageVec  []float32
	textErr   error
	imageErr  error
	lastText  string
	lastImage []byte
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastText = text
	return f.textVec, f.textErr
}

func (f *fakeEmbedder) EmbedImage(_ context.Context, image []byte) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastImage = image
	return f.imageVec, f.imageErr
}

type fakeImages struct {
	data []byte
	err  error
}

func (f *fakeImages) FetchImage(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

type fakeProductRepo struct {
	products []domain.Product
	infos    map[string]ProductInfo
	listErr  error
	infoErr  error
}

func (f *fakeProductRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	return f.products, f.listErr
}

func (f *fakeProductRepo) GetProductsInfo(_ context.Context, ids []string) ([]ProductInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	infos := make([]ProductInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := f.infos[id]; ok {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

type fakeCache struct {
	stored map[string]ProductInfo
	getErr error
}

func (f *fakeCache) GetProducts(_ context.Context, ids []string) (map[string]ProductInfo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	result := make(map[string]ProductInfo)
	for _, id := range ids {
		if info, ok := f.stored[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (f *fakeCache) SetProducts(_ context.Context, _ []ProductInfo) error { return nil }

func (f *fakeCache) DeleteProducts(_ context.Context, _ []string) error { return nil }

// --- окружение ---

// testWeights: текстовый сегмент из 2 компонент, визуальный из 2.
func testWeights() fusion.Weights {
	return fusion.NewWeights(0.7, 0.3, 2, 2)
}

func mustFuse(t *testing.T, w fusion.Weights, text, image []float32) []float32 {
	t.Helper()
	composite, err := w.Fuse(text, image)
	require.NoError(t, err)
	return composite
}

// builtHandle собирает индекс из трёх продуктов с разной полнотой модальностей:
// full (текст+изображение), text-only и image-only.
func builtHandle(t *testing.T, w fusion.Weights) *index.Handle {
	t.Helper()

	entries := []domain.IndexEntry{
		*domain.NewIndexEntry("full", mustFuse(t, w, []float32{1, 0}, []float32{1, 0}), []string{"chairs"}, 10000, true, true),
		*domain.NewIndexEntry("text-only", mustFuse(t, w, []float32{1, 0}, nil), []string{"chairs"}, 20000, true, false),
		*domain.NewIndexEntry("image-only", mustFuse(t, w, nil, []float32{1, 0}), []string{"sofas"}, 30000, false, true),
	}

	idx, err := index.Build("snap-test", entries)
	require.NoError(t, err)

	h := index.NewHandle()
	h.Swap(idx)
	return h
}

func newTestRecommendUC(t *testing.T, embedder *fakeEmbedder, images *fakeImages, repo *fakeProductRepo, cache *fakeCache) *RecommendUseCase {
	t.Helper()
	if repo == nil {
		repo = &fakeProductRepo{infos: map[string]ProductInfo{}}
	}
	if cache == nil {
		cache = &fakeCache{}
	}
	w := testWeights()
	return NewRecommendUC(builtHandle(t, w), embedder, images, repo, cache, w, logger.NewSlogLogger())
}

// --- тесты ---

func TestRecommendByText_RanksFullAboveImageOnly(t *testing.T) {
	embedder := &fakeEmbedder{textVec: []float32{1, 0}}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	res, err := uc.RecommendByText(context.Background(), NewTextQueryReq("oak chair", 3, nil))
	require.NoError(t, err)

	assert.Equal(t, "snap-test", res.SnapshotID)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "oak chair", embedder.lastText)

	// Текстовый запрос: продукты с текстовой модальностью впереди,
	// продукт без текста получает нулевую близость.
	assert.Contains(t, []string{"full", "text-only"}, res.Results[0].ProductID)
	assert.Contains(t, []string{"full", "text-only"}, res.Results[1].ProductID)
	assert.Equal(t, "image-only", res.Results[2].ProductID)
	assert.Zero(t, res.Results[2].Score)

	for i, item := range res.Results {
		assert.Equal(t, i+1, item.Rank)
	}
}

func TestRecommendByText_EmptyQuery(t *testing.T) {
	uc := newTestRecommendUC(t, &fakeEmbedder{}, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByText(context.Background(), NewTextQueryReq("   ", 3, nil))
	assert.ErrorIs(t, err, e.ErrEmptyQuery)
}

func TestRecommendByText_InvalidTopK(t *testing.T) {
	uc := newTestRecommendUC(t, &fakeEmbedder{}, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 0, nil))
	assert.ErrorIs(t, err, e.ErrInvalidTopK)
}

func TestRecommendByText_IndexNotBuilt(t *testing.T) {
	w := testWeights()
	uc := NewRecommendUC(index.NewHandle(), &fakeEmbedder{textVec: []float32{1, 0}}, &fakeImages{},
		&fakeProductRepo{}, &fakeCache{}, w, logger.NewSlogLogger())

	_, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 3, nil))
	assert.ErrorIs(t, err, e.ErrIndexNotBuilt)
}

func TestRecommendByText_ProviderFailure(t *testing.T) {
	embedder := &fakeEmbedder{textErr: e.ErrProviderTimeout}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 3, nil))
	assert.ErrorIs(t, err, e.ErrEmbeddingUnavailable)
}

func TestRecommendByText_FilterLimitsResults(t *testing.T) {
	embedder := &fakeEmbedder{textVec: []float32{1, 0}}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	filter := &domain.SearchFilter{Category: "chairs"}
	res, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 5, filter))
	require.NoError(t, err)

	// topK=5, но фильтру соответствуют только два продукта.
	require.Len(t, res.Results, 2)
	for _, item := range res.Results {
		assert.Contains(t, []string{"full", "text-only"}, item.ProductID)
	}
}

func TestRecommendByText_HydratesFromRepo(t *testing.T) {
	embedder := &fakeEmbedder{textVec: []float32{1, 0}}
	repo := &fakeProductRepo{infos: map[string]ProductInfo{
		"full":      NewProductInfo("full", "Oak Chair", "Wooden Co", "oak", []string{"chairs"}, 10000),
		"text-only": NewProductInfo("text-only", "Pine Chair", "Wooden Co", "pine", []string{"chairs"}, 20000),
	}}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, repo, nil)

	res, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 2, nil))
	require.NoError(t, err)
	require.Len(t, res.Results, 2)

	for _, item := range res.Results {
		require.NotNil(t, item.Product)
		assert.Equal(t, item.ProductID, item.Product.ID)
	}
}

func TestRecommendByText_CacheHitSkipsRepo(t *testing.T) {
	embedder := &fakeEmbedder{textVec: []float32{1, 0}}
	cache := &fakeCache{stored: map[string]ProductInfo{
		"full":       NewProductInfo("full", "Oak Chair", "Wooden Co", "oak", []string{"chairs"}, 10000),
		"text-only":  NewProductInfo("text-only", "Pine Chair", "Wooden Co", "pine", []string{"chairs"}, 20000),
		"image-only": NewProductInfo("image-only", "Velvet Sofa", "Soft Co", "velvet", []string{"sofas"}, 30000),
	}}
	repo := &fakeProductRepo{infoErr: assert.AnError}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, repo, cache)

	res, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 3, nil))
	require.NoError(t, err)
	for _, item := range res.Results {
		require.NotNil(t, item.Product)
	}
}

func TestRecommendByProduct_ExcludesSource(t *testing.T) {
	uc := newTestRecommendUC(t, &fakeEmbedder{}, &fakeImages{}, nil, nil)

	res, err := uc.RecommendByProduct(context.Background(), NewProductQueryReq("full", 3, nil))
	require.NoError(t, err)

	require.NotEmpty(t, res.Results)
	for _, item := range res.Results {
		assert.NotEqual(t, "full", item.ProductID)
	}
}

func TestRecommendByProduct_NotFound(t *testing.T) {
	uc := newTestRecommendUC(t, &fakeEmbedder{}, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByProduct(context.Background(), NewProductQueryReq("unknown", 3, nil))
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestRecommendByProduct_NoReembedding(t *testing.T) {
	embedder := &fakeEmbedder{}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByProduct(context.Background(), NewProductQueryReq("full", 3, nil))
	require.NoError(t, err)

	// Поиск по продукту использует предвычисленный вектор из снапшота.
	assert.Empty(t, embedder.lastText)
	assert.Nil(t, embedder.lastImage)
}

func TestRecommendByImage_FromData(t *testing.T) {
	embedder := &fakeEmbedder{imageVec: []float32{1, 0}}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	res, err := uc.RecommendByImage(context.Background(), NewImageQueryReq([]byte{0xFF, 0xD8}, "", 3, nil))
	require.NoError(t, err)
	require.Len(t, res.Results, 3)

	// Визуальный запрос: продукт без изображения получает нулевую близость.
	assert.Contains(t, []string{"full", "image-only"}, res.Results[0].ProductID)
	assert.Equal(t, "text-only", res.Results[2].ProductID)
	assert.Zero(t, res.Results[2].Score)
}

func TestRecommendByImage_FromObjectKey(t *testing.T) {
	embedder := &fakeEmbedder{imageVec: []float32{1, 0}}
	images := &fakeImages{data: []byte{0xFF, 0xD8, 0xFF}}
	uc := newTestRecommendUC(t, embedder, images, nil, nil)

	res, err := uc.RecommendByImage(context.Background(), NewImageQueryReq(nil, "products/full/0.jpg", 3, nil))
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)
	assert.Equal(t, images.data, embedder.lastImage)
}

func TestRecommendByImage_NoImage(t *testing.T) {
	uc := newTestRecommendUC(t, &fakeEmbedder{}, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByImage(context.Background(), NewImageQueryReq(nil, "", 3, nil))
	assert.ErrorIs(t, err, e.ErrNoImage)
}

func TestRecommendByImage_FetchFailure(t *testing.T) {
	images := &fakeImages{err: assert.AnError}
	uc := newTestRecommendUC(t, &fakeEmbedder{imageVec: []float32{1, 0}}, images, nil, nil)

	_, err := uc.RecommendByImage(context.Background(), NewImageQueryReq(nil, "products/x.jpg", 3, nil))
	assert.ErrorIs(t, err, e.ErrEmbeddingUnavailable)
}

func TestRecommendByImage_ProviderFailure(t *testing.T) {
	embedder := &fakeEmbedder{imageErr: e.ErrProviderUnavailable}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByImage(context.Background(), NewImageQueryReq([]byte{1}, "", 3, nil))
	assert.ErrorIs(t, err, e.ErrEmbeddingUnavailable)
}

func TestQueryComposite_ZeroVectorFromProvider(t *testing.T) {
	// Нулевой вектор от провайдера на запросе не маскируется деградацией.
	embedder := &fakeEmbedder{textVec: []float32{0, 0}}
	uc := newTestRecommendUC(t, embedder, &fakeImages{}, nil, nil)

	_, err := uc.RecommendByText(context.Background(), NewTextQueryReq("chair", 3, nil))
	assert.ErrorIs(t, err, e.ErrEmbeddingUnavailable)
}
