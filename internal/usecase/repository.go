package usecase

import (
	"context"

	"github.com/ikarus-tech/reco-backend/internal/domain"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductsInfo(ctx context.Context, ids []string) ([]ProductInfo, error)
}

type EmbeddingRepository interface {
	UpsertEmbeddings(ctx context.Context, embeddings []domain.Embedding) error
}

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *domain.Snapshot) error
	GetLatest(ctx context.Context) (*domain.Snapshot, error)
}

type VectorRepository interface {
	UpsertEntries(ctx context.Context, snapshotID string, entries []domain.IndexEntry) error
	PruneGenerations(ctx context.Context, keepSnapshotID string) error
	LoadEntries(ctx context.Context, snapshotID string) ([]domain.IndexEntry, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (map[string]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []string) error
}
