package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const defaultTopK = 10

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrEmptyQuery):
		return http.StatusBadRequest, e.ErrEmptyQuery.Error()
	case errors.Is(err, e.ErrInvalidTopK):
		return http.StatusBadRequest, e.ErrInvalidTopK.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrInvalidPriceRange):
		return http.StatusBadRequest, e.ErrInvalidPriceRange.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrNoImage):
		return http.StatusBadRequest, e.ErrNoImage.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusBadRequest, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrIndexNotBuilt):
		return http.StatusServiceUnavailable, e.ErrIndexNotBuilt.Error()
	case errors.Is(err, e.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable, e.ErrEmbeddingUnavailable.Error()
	case errors.Is(err, e.ErrBuildAborted):
		return http.StatusConflict, e.ErrBuildAborted.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseTopK читает top_k из строки. Пустое значение даёт дефолт,
// нулевое или отрицательное отклоняется.
func parseTopK(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return defaultTopK, nil
	}

	topK, err := strconv.Atoi(s)
	if err != nil {
		return 0, e.ErrInvalidTopK
	}
	if topK <= 0 {
		return 0, e.ErrInvalidTopK
	}

	return topK, nil
}

// parseFilter собирает фильтр каталога из category/min_price/max_price.
// Возвращает nil, если ни одно поле не задано.
func parseFilter(category, minPriceStr, maxPriceStr string) (*domain.SearchFilter, error) {
	if category == "" && minPriceStr == "" && maxPriceStr == "" {
		return nil, nil
	}

	filter := &domain.SearchFilter{Category: category}

	if minPriceStr != "" {
		minPrice, err := parsePriceToCents(minPriceStr)
		if err != nil {
			return nil, err
		}
		filter.PriceMin = &minPrice
	}

	if maxPriceStr != "" {
		maxPrice, err := parsePriceToCents(maxPriceStr)
		if err != nil {
			return nil, err
		}
		filter.PriceMax = &maxPrice
	}

	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return nil, e.ErrInvalidPriceRange
	}

	return filter, nil
}

// parsePriceToCents конвертирует строку вида "599.99" или "600" в центы.
// Отклоняет отрицательные значения, более двух знаков после запятой
// и значения свыше разумного предела.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	// Сравнение с округлённым значением, а не с экспонентой:
	// "599.990" хранит экспоненту -3, но дробных центов не содержит.
	if !d.Equal(d.Round(2)) {
		return 0, e.ErrInvalidPrice
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// readImageFile читает один файл изображения из multipart-формы.
// Принимает только image/* типы.
func readImageFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, e.ErrNoImage
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, e.Wrap(mimeType, e.ErrUnsupportedMediaType)
	}

	return data, nil
}
