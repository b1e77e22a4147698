//go:generate goverter gen github.com/ikarus-tech/reco-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/ikarus-tech/reco-backend/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// SnapshotConverter преобразует сущности Snapshot между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type SnapshotConverter interface {
	ToModel(entity *domain.Snapshot) *SnapshotModel
	ToEntity(model *SnapshotModel) *domain.Snapshot
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}
