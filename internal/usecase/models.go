package usecase

import "github.com/ikarus-tech/reco-backend/internal/domain"

// RECOMMEND USECASE

// TextQueryReq — запрос рекомендаций по свободному тексту.
type TextQueryReq struct {
	Query  string
	TopK   int
	Filter *domain.SearchFilter
}

// ProductQueryReq — запрос рекомендаций «похожие на продукт».
type ProductQueryReq struct {
	ProductID string
	TopK      int
	Filter    *domain.SearchFilter
}

// ImageQueryReq — запрос рекомендаций по изображению.
// Заполняется либо Data (байты изображения из запроса),
// либо ObjectKey (ключ объекта в хранилище изображений).
type ImageQueryReq struct {
	Data      []byte
	ObjectKey string
	TopK      int
	Filter    *domain.SearchFilter
}

// RankedItem — один результат ранжирования.
// Rank нумеруется с единицы; score не возрастает с ростом ранга.
type RankedItem struct {
	ProductID string
	Score     float64
	Rank      int
	Product   *ProductInfo
}

// RecommendRes — ответ с ранжированным списком рекомендаций.
type RecommendRes struct {
	SnapshotID string
	Results    []RankedItem
}

// ProductInfo — DTO с метаданными продукта для внешнего использования.
type ProductInfo struct {
	ID         string
	Title      string
	Brand      string
	Material   string
	Categories []string
	Price      int64
}

// INFRASTRUCTURE

// SnapshotBuiltEvent — событие об успешной сборке нового снапшота индекса.
// Сериализуется в JSON для публикации в Kafka.
type SnapshotBuiltEvent struct {
	EventID      string `json:"event_id"`
	SnapshotID   string `json:"snapshot_id"`
	ProductCount int    `json:"product_count"`
	IndexedCount int    `json:"indexed_count"`
	SkippedCount int    `json:"skipped_count"`
	CompositeDim int    `json:"composite_dim"`
	BuiltAt      int64  `json:"built_at"`
}

// MAPPERS

func NewTextQueryReq(query string, topK int, filter *domain.SearchFilter) *TextQueryReq {
	return &TextQueryReq{
		Query:  query,
		TopK:   topK,
		Filter: filter,
	}
}

func NewProductQueryReq(productID string, topK int, filter *domain.SearchFilter) *ProductQueryReq {
	return &ProductQueryReq{
		ProductID: productID,
		TopK:      topK,
		Filter:    filter,
	}
}

func NewImageQueryReq(data []byte, objectKey string, topK int, filter *domain.SearchFilter) *ImageQueryReq {
	return &ImageQueryReq{
		Data:      data,
		ObjectKey: objectKey,
		TopK:      topK,
		Filter:    filter,
	}
}

func NewRecommendRes(snapshotID string, results []RankedItem) *RecommendRes {
	return &RecommendRes{
		SnapshotID: snapshotID,
		Results:    results,
	}
}

func NewProductInfo(id, title, brand, material string, categories []string, price int64) ProductInfo {
	return ProductInfo{
		ID:         id,
		Title:      title,
		Brand:      brand,
		Material:   material,
		Categories: categories,
		Price:      price,
	}
}

func NewSnapshotBuiltEvent(eventID string, snapshot *domain.Snapshot, compositeDim int, builtAt int64) *SnapshotBuiltEvent {
	return &SnapshotBuiltEvent{
		EventID:      eventID,
		SnapshotID:   snapshot.ID,
		ProductCount: snapshot.ProductCount,
		IndexedCount: snapshot.IndexedCount,
		SkippedCount: snapshot.SkippedCount,
		CompositeDim: compositeDim,
		BuiltAt:      builtAt,
	}
}
