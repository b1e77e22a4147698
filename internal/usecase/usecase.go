package usecase

import (
	"context"

	"github.com/ikarus-tech/reco-backend/internal/domain"
)

type RecommendUC interface {
	RecommendByText(ctx context.Context, req *TextQueryReq) (*RecommendRes, error)
	RecommendByProduct(ctx context.Context, req *ProductQueryReq) (*RecommendRes, error)
	RecommendByImage(ctx context.Context, req *ImageQueryReq) (*RecommendRes, error)
}

type SnapshotUC interface {
	Rebuild(ctx context.Context) (*domain.Snapshot, error)
	Restore(ctx context.Context) (*domain.Snapshot, error)
}
