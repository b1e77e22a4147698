package qdrant

import (
	"context"

	"github.com/google/uuid"
	"github.com/ikarus-tech/reco-backend/internal/cfg"
	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// Каталог небольшой и пересобирается целиком, поэтому выгрузка снапшота
// делается одним scroll-запросом с запасом по лимиту.
const scrollLimit = 100_000

// IndexRepo — персистентный слой составных векторов в Qdrant.
// Каждая точка несёт составной вектор продукта и денормализованные метаданные
// для восстановления записей индекса без обращения к хранилищу продуктов.
type IndexRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewIndexRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *IndexRepo {
	return &IndexRepo{
		client: client,
		cfg:    cfg,
	}
}

// UpsertEntries сохраняет записи нового снапшота. Точки прежних поколений
// не трогаются: их вычищает PruneGenerations после фиксации манифеста, чтобы
// восстановление всегда находило хотя бы одно полное поколение.
func (q *IndexRepo) UpsertEntries(ctx context.Context, snapshotID string, entries []domain.IndexEntry) error {
	points := make([]*qdrant.PointStruct, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewString()),
			Vectors: qdrant.NewVectors(entry.Composite...),
			Payload: qdrant.NewValueMap(map[string]any{
				"product_id":  entry.ProductID,
				"snapshot_id": snapshotID,
				"categories":  toAnySlice(entry.Categories),
				"price":       entry.Price,
				"has_text":    entry.HasText,
				"has_image":   entry.HasImage,
			}),
		})
	}

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// PruneGenerations удаляет точки всех поколений, кроме указанного.
// Вызывается только после фиксации манифеста нового снапшота: до фиксации
// актуальным остаётся прежнее поколение, и его точки должны пережить рестарт.
func (q *IndexRepo) PruneGenerations(ctx context.Context, keepSnapshotID string) error {
	if _, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			MustNot: []*qdrant.Condition{
				qdrant.NewMatch("snapshot_id", keepSnapshotID),
			},
		}),
		Wait: qdrant.PtrOf(true),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// LoadEntries выгружает записи указанного снапшота для восстановления индекса.
func (q *IndexRepo) LoadEntries(ctx context.Context, snapshotID string) ([]domain.IndexEntry, error) {
	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("snapshot_id", snapshotID),
			},
		},
		Limit:       qdrant.PtrOf(uint32(scrollLimit)),
		WithPayload: qdrant.NewWithPayload(true),
		WithVectors: qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	entries := make([]domain.IndexEntry, 0, len(points))
	for _, point := range points {
		entry, err := toIndexEntry(point)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		entries = append(entries, *entry)
	}

	return entries, nil
}

// toIndexEntry восстанавливает запись индекса из точки Qdrant.
func toIndexEntry(point *qdrant.RetrievedPoint) (*domain.IndexEntry, error) {
	payload := point.GetPayload()

	productID := payload["product_id"].GetStringValue()
	if productID == "" {
		return nil, e.ErrProductNotFound
	}

	vector := point.GetVectors().GetVector().GetData()
	if len(vector) == 0 {
		return nil, e.ErrInvalidDimension
	}

	var categories []string
	if list := payload["categories"].GetListValue(); list != nil {
		for _, v := range list.GetValues() {
			categories = append(categories, v.GetStringValue())
		}
	}

	return domain.NewIndexEntry(
		productID,
		vector,
		categories,
		payload["price"].GetIntegerValue(),
		payload["has_text"].GetBoolValue(),
		payload["has_image"].GetBoolValue(),
	), nil
}

func toAnySlice(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}
