package pgdb

import (
	"context"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// EmbeddingRepo хранит сырые векторы обеих модальностей в PostgreSQL.
// Сырые векторы — источник для диагностики и пересборки без повторной
// векторизации; поисковый путь по ним не ходит.
type EmbeddingRepo struct {
	pool *pgxpool.Pool
}

func NewEmbeddingRepo(pool *pgxpool.Pool) *EmbeddingRepo {
	return &EmbeddingRepo{
		pool: pool,
	}
}

// UpsertEmbeddings идемпотентно сохраняет векторы в рамках транзакции сборки снапшота.
func (r *EmbeddingRepo) UpsertEmbeddings(ctx context.Context, embeddings []domain.Embedding) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO product_embeddings (product_id, modality, vector, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (product_id, modality)
		DO UPDATE SET
			vector = EXCLUDED.vector,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, emb := range embeddings {
		batch.Queue(query, emb.ProductID, string(emb.Modality), emb.Vector)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range embeddings {
		if _, err := results.Exec(); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}
