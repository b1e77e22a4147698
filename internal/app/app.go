package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	config "github.com/ikarus-tech/reco-backend/internal/cfg"
	v1Http "github.com/ikarus-tech/reco-backend/internal/delivery/v1/http"
	"github.com/ikarus-tech/reco-backend/internal/fusion"
	"github.com/ikarus-tech/reco-backend/internal/index"
	"github.com/ikarus-tech/reco-backend/internal/infrastructure/kafka"
	ml_service "github.com/ikarus-tech/reco-backend/internal/infrastructure/ml-service"
	s3Repo "github.com/ikarus-tech/reco-backend/internal/repository/minio"
	"github.com/ikarus-tech/reco-backend/internal/repository/pgdb"
	pgdbConv "github.com/ikarus-tech/reco-backend/internal/repository/pgdb/converter/generated"
	qdrantRepo "github.com/ikarus-tech/reco-backend/internal/repository/qdrant"
	"github.com/ikarus-tech/reco-backend/internal/repository/redis"
	redisConv "github.com/ikarus-tech/reco-backend/internal/repository/redis/converter/generated"
	"github.com/ikarus-tech/reco-backend/internal/usecase"
	"github.com/ikarus-tech/reco-backend/pkg/clients"
	"github.com/ikarus-tech/reco-backend/pkg/closer"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
	"github.com/ikarus-tech/reco-backend/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// Run поднимает все зависимости, восстанавливает последний снапшот индекса
// и запускает HTTP-сервер. Блокируется до сигнала остановки или фатальной ошибки.
func Run(cfg *config.Config, log logger.Logger) error {
	cl := closer.NewCloser(5 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize database")
		return err
	}
	cl.Add(func(_ context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	snapConv := pgdbConv.NewSnapshotConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	embeddingRepo := pgdb.NewEmbeddingRepo(db.Pool)
	snapshotRepo := pgdb.NewSnapshotRepo(db.Pool, snapConv)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return err
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		log.Errorf(err, "failed to initialize MinIO bucket")
		return err
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		log.Errorf(err, "failed to initialize qdrant")
		return err
	}
	cl.Add(func(_ context.Context) error {
		return qdrantClient.Client.Close()
	})

	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
		qdrantCancel()
		log.Errorf(err, "failed to initialize qdrant collection")
		return err
	}
	qdrantCancel()

	vectorRepo := qdrantRepo.NewIndexRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return err
	}
	cl.Add(func(_ context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)

	ml := ml_service.NewMLService(cfg.Ml, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return err
	}
	cl.Add(func(_ context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		return err
	}

	weights := fusion.NewWeights(
		cfg.Snapshot.TextWeight,
		cfg.Snapshot.ImageWeight,
		cfg.Snapshot.TextDim,
		cfg.Snapshot.ImageDim,
	)
	handle := index.NewHandle()

	recommendUC := usecase.NewRecommendUC(
		handle,
		ml,
		imageRepo,
		productRepo,
		cacheRepo,
		weights,
		log,
	)

	snapshotUC := usecase.NewSnapshotUC(
		productRepo,
		embeddingRepo,
		snapshotRepo,
		vectorRepo,
		ml,
		imageRepo,
		producer,
		handle,
		db.Pool,
		weights,
		cfg.Snapshot.MaxMissingFrac,
		cfg.Snapshot.MaxConcurrent,
		log,
	)

	warmUpIndex(snapshotUC, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(recommendUC, snapshotUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		log.Warnf("shutdown finished with errors: %v", err)
	}

	log.Infof("Application shutdown complete")
	return appErr
}

// warmUpIndex восстанавливает последний снапшот, а при его отсутствии
// запускает первичную сборку. Ошибка не фатальна: сервис стартует
// с пустым handle и отвечает 503 до первой успешной сборки.
func warmUpIndex(snapshotUC usecase.SnapshotUC, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := snapshotUC.Restore(ctx); err != nil {
		if errors.Is(err, e.ErrSnapshotNotFound) {
			log.Infof("no stored snapshot, building initial index")
			if _, err := snapshotUC.Rebuild(ctx); err != nil {
				log.Warnf("initial index build failed, serving requests will return 503: %v", err)
			}
			return
		}
		log.Warnf("snapshot restore failed, serving requests will return 503: %v", err)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
