package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ikarus-tech/reco-backend/internal/usecase"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
)

type RecommendHandler struct {
	recommendUsecase usecase.RecommendUC
	logger           logger.Logger
}

func NewRecommendHandler(recommendUsecase usecase.RecommendUC, logger logger.Logger) *RecommendHandler {
	return &RecommendHandler{recommendUsecase: recommendUsecase, logger: logger}
}

type textQueryBody struct {
	Query    string `json:"query"`
	TopK     int    `json:"top_k"`
	Category string `json:"category"`
	MinPrice string `json:"min_price"`
	MaxPrice string `json:"max_price"`
}

type rankedItemBody struct {
	ProductID  string   `json:"product_id"`
	Score      float64  `json:"score"`
	Rank       int      `json:"rank"`
	Title      string   `json:"title,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Material   string   `json:"material,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Price      int64    `json:"price,omitempty"`
}

type recommendResBody struct {
	SnapshotID string           `json:"snapshot_id"`
	Results    []rankedItemBody `json:"results"`
}

// recommendByText
//
//	@Summary		Рекомендации по текстовому запросу
//	@Description	Векторизует текст запроса и возвращает ближайшие продукты каталога
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		textQueryBody	true	"Текст запроса и параметры поиска"
//	@Success		200		{object}	recommendResBody	"Ранжированный список рекомендаций"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse	"Индекс не построен или провайдер эмбеддингов недоступен"
//	@Router			/recommendations/text [post]
func (h *RecommendHandler) recommendByText(w http.ResponseWriter, r *http.Request) {
	var body textQueryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	topK := body.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	if topK < 0 {
		WriteError(w, e.ErrInvalidTopK)
		return
	}

	filter, err := parseFilter(body.Category, body.MinPrice, body.MaxPrice)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.recommendUsecase.RecommendByText(r.Context(), usecase.NewTextQueryReq(body.Query, topK, filter))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendResBody(res))
}

// recommendByProduct
//
//	@Summary		Похожие продукты
//	@Description	Возвращает продукты, ближайшие к композитному вектору указанного продукта
//	@Tags			recommendations
//	@Produce		json
//	@Param			id			path		string	true	"ID продукта"
//	@Param			top_k		query		int		false	"Количество результатов"
//	@Param			category	query		string	false	"Фильтр по категории"
//	@Param			min_price	query		string	false	"Минимальная цена"
//	@Param			max_price	query		string	false	"Максимальная цена"
//	@Success		200			{object}	recommendResBody	"Ранжированный список рекомендаций"
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404			{object}	ErrorResponse	"Продукт не найден в индексе"
//	@Failure		503			{object}	ErrorResponse	"Индекс не построен"
//	@Router			/products/{id}/recommendations [get]
func (h *RecommendHandler) recommendByProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	query := r.URL.Query()

	topK, err := parseTopK(query.Get("top_k"))
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	filter, err := parseFilter(query.Get("category"), query.Get("min_price"), query.Get("max_price"))
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.recommendUsecase.RecommendByProduct(r.Context(), usecase.NewProductQueryReq(productID, topK, filter))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendResBody(res))
}

// recommendByImage
//
//	@Summary		Рекомендации по изображению
//	@Description	Векторизует загруженное изображение и возвращает визуально похожие продукты
//	@Tags			recommendations
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Изображение для поиска"
//	@Param			top_k		formData	int		false	"Количество результатов"
//	@Param			category	formData	string	false	"Фильтр по категории"
//	@Param			min_price	formData	string	false	"Минимальная цена"
//	@Param			max_price	formData	string	false	"Максимальная цена"
//	@Success		200			{object}	recommendResBody	"Ранжированный список рекомендаций"
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503			{object}	ErrorResponse	"Индекс не построен или провайдер эмбеддингов недоступен"
//	@Router			/recommendations/image [post]
func (h *RecommendHandler) recommendByImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxFileSize         = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImage)
		return
	}

	data, err := readImageFile(files[0], maxFileSize)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	topK, err := parseTopK(r.FormValue("top_k"))
	if err != nil {
		WriteError(w, err)
		return
	}

	filter, err := parseFilter(r.FormValue("category"), r.FormValue("min_price"), r.FormValue("max_price"))
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.recommendUsecase.RecommendByImage(r.Context(), usecase.NewImageQueryReq(data, "", topK, filter))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendResBody(res))
}

func toRecommendResBody(res *usecase.RecommendRes) *recommendResBody {
	results := make([]rankedItemBody, 0, len(res.Results))
	for _, item := range res.Results {
		body := rankedItemBody{
			ProductID: item.ProductID,
			Score:     item.Score,
			Rank:      item.Rank,
		}
		if item.Product != nil {
			body.Title = item.Product.Title
			body.Brand = item.Product.Brand
			body.Material = item.Product.Material
			body.Categories = item.Product.Categories
			body.Price = item.Product.Price
		}
		results = append(results, body)
	}

	return &recommendResBody{
		SnapshotID: res.SnapshotID,
		Results:    results,
	}
}
