package domain

import (
	"strings"
	"time"
)

// Product описывает товар каталога.
// Запись неизменяема после загрузки снапшота каталога: любое изменение
// требует пересборки снапшота целиком.
type Product struct {
	ID          string
	Title       string
	Description string
	Brand       string
	Material    string
	Categories  []string
	Price       int64 // Цена хранится в центах
	ImageKeys   []string
	CreatedAt   time.Time
}

func NewProduct(id, title, description, brand, material string, categories []string, price int64, imageKeys []string) *Product {
	return &Product{
		ID:          id,
		Title:       title,
		Description: description,
		Brand:       brand,
		Material:    material,
		Categories:  categories,
		Price:       price,
		ImageKeys:   imageKeys,
	}
}

// EmbeddingText собирает текст продукта для векторизации:
// название, описание и помеченные атрибуты одной строкой.
func (p *Product) EmbeddingText() string {
	parts := make([]string, 0, 5)

	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if p.Brand != "" {
		parts = append(parts, "Brand: "+p.Brand)
	}
	if p.Material != "" {
		parts = append(parts, "Material: "+p.Material)
	}
	if len(p.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(p.Categories, ", "))
	}

	return strings.Join(parts, " ")
}

// PrimaryImageKey возвращает ключ первого изображения продукта
// или пустую строку, если изображений нет.
func (p *Product) PrimaryImageKey() string {
	if len(p.ImageKeys) == 0 {
		return ""
	}
	return p.ImageKeys[0]
}
