package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки построения и обслуживания индекса
	ErrIndexNotBuilt    = fmt.Errorf("index not built")
	ErrInvalidDimension = fmt.Errorf("invalid vector dimension")
	ErrBuildAborted     = fmt.Errorf("snapshot build aborted: too many products without embeddings")
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")
	ErrNoModalities     = fmt.Errorf("no modalities present")
	ErrNoProducts       = fmt.Errorf("no products in catalog")

	// Ошибки получения эмбеддингов
	ErrEmbeddingUnavailable = fmt.Errorf("embedding unavailable")
	ErrProviderTimeout      = fmt.Errorf("embedding provider timeout")
	ErrProviderUnavailable  = fmt.Errorf("embedding provider unavailable")
	ErrEmptyVector          = fmt.Errorf("provider returned empty vector")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrEmptyQuery           = fmt.Errorf("query text is empty")
	ErrInvalidTopK          = fmt.Errorf("top_k must be positive")
	ErrInvalidPrice         = fmt.Errorf("invalid price value")
	ErrInvalidPriceRange    = fmt.Errorf("min_price exceeds max_price")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
