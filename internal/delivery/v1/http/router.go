package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	_ "github.com/ikarus-tech/reco-backend/docs" // Импорт сгенерированных файлов
	"github.com/ikarus-tech/reco-backend/internal/usecase"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(recUC usecase.RecommendUC, snapUC usecase.SnapshotUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		recHandler := NewRecommendHandler(recUC, r.logger)
		registerRecommendRoutes(v1, recHandler)

		snapHandler := NewSnapshotHandler(snapUC, r.logger)
		registerSnapshotRoutes(v1, snapHandler)
	})
}

func registerRecommendRoutes(router chi.Router, recHandler *RecommendHandler) {
	router.Route("/recommendations", func(rec chi.Router) {
		rec.Post("/text", recHandler.recommendByText)
		rec.Post("/image", recHandler.recommendByImage)
	})

	router.Get("/products/{id}/recommendations", recHandler.recommendByProduct)
}

func registerSnapshotRoutes(router chi.Router, snapHandler *SnapshotHandler) {
	router.Route("/snapshots", func(sn chi.Router) {
		sn.Post("/rebuild", snapHandler.rebuild)
	})
}
