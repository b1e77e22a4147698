package usecase

import "context"

type EmbedderInfra interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}

type ImageInfra interface {
	FetchImage(ctx context.Context, key string) ([]byte, error)
}

type EventProducer interface {
	PublishSnapshotBuilt(ctx context.Context, event *SnapshotBuiltEvent) error
}
