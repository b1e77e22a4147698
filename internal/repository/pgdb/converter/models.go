package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Brand       string    `db:"brand"`
	Material    string    `db:"material"`
	Categories  []string  `db:"categories"`
	Price       int64     `db:"price"`
	ImageKeys   []string  `db:"image_keys"`
	CreatedAt   time.Time `db:"created_at"`
}

// SnapshotModel представляет запись таблицы snapshots в PostgreSQL.
type SnapshotModel struct {
	ID           string    `db:"id"`
	TextDim      int       `db:"text_dim"`
	ImageDim     int       `db:"image_dim"`
	TextWeight   float64   `db:"text_weight"`
	ImageWeight  float64   `db:"image_weight"`
	ProductCount int       `db:"product_count"`
	IndexedCount int       `db:"indexed_count"`
	SkippedCount int       `db:"skipped_count"`
	CreatedAt    time.Time `db:"created_at"`
}
