package pgdb

import (
	"context"
	"errors"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/repository/pgdb/converter"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// SnapshotRepo хранит манифесты снапшотов индекса в PostgreSQL.
// Манифест фиксирует размерности и веса слияния поколения индекса,
// чтобы повторная загрузка могла отвергнуть несовместимый индекс.
type SnapshotRepo struct {
	pool *pgxpool.Pool
	conv converter.SnapshotConverter
}

func NewSnapshotRepo(pool *pgxpool.Pool, conv converter.SnapshotConverter) *SnapshotRepo {
	return &SnapshotRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет манифест в рамках транзакции сборки снапшота.
func (s *SnapshotRepo) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO snapshots (
			id, text_dim, image_dim, text_weight, image_weight,
			product_count, indexed_count, skipped_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	model := s.conv.ToModel(snapshot)
	if _, err := tx.Exec(ctx, query,
		model.ID, model.TextDim, model.ImageDim, model.TextWeight, model.ImageWeight,
		model.ProductCount, model.IndexedCount, model.SkippedCount,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetLatest возвращает манифест последнего собранного снапшота.
// Возвращает e.ErrSnapshotNotFound, если снапшоты ещё не собирались.
func (s *SnapshotRepo) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	query := `
		SELECT id, text_dim, image_dim, text_weight, image_weight,
			product_count, indexed_count, skipped_count, created_at
		FROM snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`

	var model converter.SnapshotModel
	err := s.pool.QueryRow(ctx, query).Scan(
		&model.ID, &model.TextDim, &model.ImageDim, &model.TextWeight, &model.ImageWeight,
		&model.ProductCount, &model.IndexedCount, &model.SkippedCount, &model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrSnapshotNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}
