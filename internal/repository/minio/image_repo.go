package minio

import (
	"context"
	"io"

	"github.com/ikarus-tech/reco-backend/internal/cfg"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo читает изображения продуктов из MinIO.
// Байты нужны провайдеру эмбеддингов: на сборке снапшота для визуальной
// модальности продуктов и на запросах по ключу объекта.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// FetchImage возвращает байты объекта по ключу.
func (i *ImageRepo) FetchImage(ctx context.Context, key string) ([]byte, error) {
	obj, err := i.mc.GetObject(ctx, i.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}
