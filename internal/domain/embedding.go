package domain

// Modality — канал представления продукта (текст или изображение).
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// Embedding представляет сырой вектор одной модальности продукта.
type Embedding struct {
	ProductID string
	Modality  Modality
	Vector    []float32
}

func NewEmbedding(productID string, modality Modality, vector []float32) *Embedding {
	return &Embedding{
		ProductID: productID,
		Modality:  modality,
		Vector:    vector,
	}
}
