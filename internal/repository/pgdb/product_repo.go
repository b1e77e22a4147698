package pgdb

import (
	"context"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/repository/pgdb/converter"
	"github.com/ikarus-tech/reco-backend/internal/usecase"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Каталог для этого ядра read-only: записи загружаются внешним пайплайном
// инжеста, здесь они только читаются.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// ListProducts возвращает снапшот каталога в стабильном порядке по ID.
func (p *ProductRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, title, description, brand, material, categories, price, image_keys, created_at
		FROM products
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Title, &model.Description, &model.Brand, &model.Material,
			&model.Categories, &model.Price, &model.ImageKeys, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	return p.conv.ToArrEntity(models), nil
}

// GetProductsInfo возвращает метаданные продуктов по их идентификаторам.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []string) ([]usecase.ProductInfo, error) {
	query := `
		SELECT id, title, brand, material, categories, price
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var info usecase.ProductInfo
		if err := rows.Scan(&info.ID, &info.Title, &info.Brand, &info.Material, &info.Categories, &info.Price); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, info)
	}

	return result, nil
}
