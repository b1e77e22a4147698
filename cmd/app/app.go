package main

import (
	"os"

	"github.com/ikarus-tech/reco-backend/internal/app"
	config "github.com/ikarus-tech/reco-backend/internal/cfg"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title			Reco Backend API
//	@version		1.0
//	@description	Сервис мультимодальных рекомендаций по каталогу мебели
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found, relying on environment")
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := app.Run(cfg, log); err != nil {
		os.Exit(1)
	}
}
