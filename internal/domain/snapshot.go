package domain

import "time"

// Snapshot описывает манифест одного собранного поколения индекса.
// Размерности и веса слияния сохраняются вместе со снапшотом,
// чтобы при повторной загрузке отвергать несовместимые индексы.
type Snapshot struct {
	ID           string
	TextDim      int
	ImageDim     int
	TextWeight   float64
	ImageWeight  float64
	ProductCount int
	IndexedCount int
	SkippedCount int
	CreatedAt    time.Time
}

func NewSnapshot(id string, textDim, imageDim int, textWeight, imageWeight float64, productCount, indexedCount, skippedCount int) *Snapshot {
	return &Snapshot{
		ID:           id,
		TextDim:      textDim,
		ImageDim:     imageDim,
		TextWeight:   textWeight,
		ImageWeight:  imageWeight,
		ProductCount: productCount,
		IndexedCount: indexedCount,
		SkippedCount: skippedCount,
	}
}
