// Package fusion собирает из текстового и визуального эмбеддингов продукта
// один составной вектор фиксированной размерности.
package fusion

import (
	"math"

	"github.com/ikarus-tech/reco-backend/pkg/e"
)

// Веса модальностей по умолчанию: текст доминирует над изображением.
const (
	DefaultTextWeight  = 0.7
	DefaultImageWeight = 0.3
)

// Weights задаёт схему слияния: веса и ожидаемые размерности обеих модальностей.
// Схема фиксируется на всё время жизни одного поколения индекса и сохраняется
// в манифесте снапшота для проверки совместимости при загрузке.
type Weights struct {
	Text     float64
	Image    float64
	TextDim  int
	ImageDim int
}

func NewWeights(text, image float64, textDim, imageDim int) Weights {
	return Weights{
		Text:     text,
		Image:    image,
		TextDim:  textDim,
		ImageDim: imageDim,
	}
}

// CompositeDim возвращает размерность составного вектора.
func (w Weights) CompositeDim() int {
	return w.TextDim + w.ImageDim
}

// Matches сравнивает схему слияния с параметрами манифеста снапшота.
func (w Weights) Matches(textDim, imageDim int, textWeight, imageWeight float64) bool {
	const eps = 1e-9
	return w.TextDim == textDim &&
		w.ImageDim == imageDim &&
		math.Abs(w.Text-textWeight) < eps &&
		math.Abs(w.Image-imageWeight) < eps
}

// Fuse строит составной вектор продукта из его эмбеддингов.
//
// Каждый присутствующий вектор нормализуется до единичной длины и масштабируется
// весом своей модальности; сегменты конкатенируются в фиксированном порядке
// (текст первым). Вектор нулевой длины или нулевой нормы считается отсутствующим,
// его сегмент заполняется нулями: продукт с частичными данными остаётся сравнимым,
// но оказывается ниже продуктов с полными данными, поскольку присутствующий
// сегмент не перенормируется. Если отсутствуют обе модальности, возвращается
// e.ErrNoModalities и продукт в индекс не попадает.
func (w Weights) Fuse(text, image []float32) ([]float32, error) {
	if len(text) > 0 && len(text) != w.TextDim {
		return nil, e.Wrap("fusion: text", e.ErrInvalidDimension)
	}
	if len(image) > 0 && len(image) != w.ImageDim {
		return nil, e.Wrap("fusion: image", e.ErrInvalidDimension)
	}

	textUnit := normalize(text)
	imageUnit := normalize(image)
	if textUnit == nil && imageUnit == nil {
		return nil, e.ErrNoModalities
	}

	composite := make([]float32, w.CompositeDim())
	if textUnit != nil {
		for i, v := range textUnit {
			composite[i] = float32(float64(v) * w.Text)
		}
	}
	if imageUnit != nil {
		for i, v := range imageUnit {
			composite[w.TextDim+i] = float32(float64(v) * w.Image)
		}
	}

	return composite, nil
}

// Cosine вычисляет косинусную близость двух векторов.
// Для нулевого вектора (любого из двух) близость определена как 0, а не ошибка.
func Cosine(a, b []float32) float64 {
	var dot, na2, nb2 float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 || math.IsNaN(na2) || math.IsNaN(nb2) {
		return 0
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2))
}

// Norm возвращает L2-норму вектора.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// normalize возвращает копию вектора единичной длины или nil, если вектор
// пуст либо имеет нулевую или нечисловую норму. NaN и Inf в компонентах
// означают повреждённый эмбеддинг, такая модальность считается отсутствующей.
func normalize(v []float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	norm := Norm(v)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil
	}

	unit := make([]float32, len(v))
	for i, x := range v {
		unit[i] = float32(float64(x) / norm)
	}
	return unit
}
