package usecase

import (
	"context"
	"sync"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/fusion"
	"github.com/ikarus-tech/reco-backend/internal/index"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// SnapshotUseCase собирает и восстанавливает поколения индекса.
// Сборка идёт в стороне от обслуживания: обслуживаемый индекс подменяется
// атомарно только после успешной фиксации снапшота, поэтому запросы никогда
// не видят полусобранный индекс.
type SnapshotUseCase struct {
	productRepo    ProductRepository
	embeddingRepo  EmbeddingRepository
	snapshotRepo   SnapshotRepository
	vectorRepo     VectorRepository
	embedder       EmbedderInfra
	images         ImageInfra
	producer       EventProducer
	handle         *index.Handle
	dbPool         transaction.Transactional
	weights        fusion.Weights
	maxMissingFrac float64
	maxConcurrent  int
	logger         logger.Logger
}

func NewSnapshotUC(
	productRepo ProductRepository,
	embeddingRepo EmbeddingRepository,
	snapshotRepo SnapshotRepository,
	vectorRepo VectorRepository,
	embedder EmbedderInfra,
	images ImageInfra,
	producer EventProducer,
	handle *index.Handle,
	dbPool transaction.Transactional,
	weights fusion.Weights,
	maxMissingFrac float64,
	maxConcurrent int,
	logger logger.Logger,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		productRepo:    productRepo,
		embeddingRepo:  embeddingRepo,
		snapshotRepo:   snapshotRepo,
		vectorRepo:     vectorRepo,
		embedder:       embedder,
		images:         images,
		producer:       producer,
		handle:         handle,
		dbPool:         dbPool,
		weights:        weights,
		maxMissingFrac: maxMissingFrac,
		maxConcurrent:  maxConcurrent,
		logger:         logger,
	}
}

// productVectors — сырые векторы обеих модальностей одного продукта.
// Отсутствующая модальность представлена nil.
type productVectors struct {
	product *domain.Product
	text    []float32
	image   []float32
}

// Rebuild собирает новое поколение индекса с нуля: каталог векторизуется,
// составные векторы строятся и сохраняются, обслуживаемый индекс подменяется.
// Отсутствие отдельных модальностей у продукта терпимо (продукт занижается
// или исключается по правилам слияния); сборка прерывается с ErrBuildAborted,
// только если доля продуктов без единой модальности превышает порог.
func (s *SnapshotUseCase) Rebuild(ctx context.Context) (*domain.Snapshot, error) {
	const op = "SnapshotUseCase.Rebuild"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(products) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	vectors := s.embedCatalog(ctx, products)

	entries, rawEmbeddings, skipped := s.fuseCatalog(vectors)
	if float64(skipped) > s.maxMissingFrac*float64(len(products)) {
		s.logger.Errorf(e.ErrBuildAborted, "%d of %d products have no usable modality", skipped, len(products))
		return nil, e.Wrap(op, e.ErrBuildAborted)
	}

	snapshotID := uuid.NewString()
	idx, err := index.Build(snapshotID, entries)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Персистентный слой: сначала точки нового поколения в векторное хранилище,
	// затем манифест и сырые векторы одной транзакцией в БД. Точки прежних
	// поколений остаются на месте до фиксации манифеста: при сбое на любом шаге
	// GetLatest продолжает указывать на полное поколение.
	if err := s.vectorRepo.UpsertEntries(ctx, snapshotID, entries); err != nil {
		return nil, e.Wrap(op, err)
	}

	snapshot := domain.NewSnapshot(
		snapshotID,
		s.weights.TextDim, s.weights.ImageDim,
		s.weights.Text, s.weights.Image,
		len(products), len(entries), skipped,
	)

	if err := s.persistManifest(ctx, snapshot, rawEmbeddings); err != nil {
		return nil, e.Wrap(op, err)
	}

	s.handle.Swap(idx)
	s.logger.Infof("snapshot %s is serving: %d indexed, %d skipped", snapshotID, len(entries), skipped)

	// Осиротевшие точки не мешают восстановлению (загрузка фильтрует по
	// snapshot_id), поэтому неудачная очистка не отменяет сборку.
	if err := s.vectorRepo.PruneGenerations(ctx, snapshotID); err != nil {
		s.logger.Warnf("failed to prune stale snapshot points: %v", err)
	}

	s.publishBuilt(ctx, snapshot)

	return snapshot, nil
}

// Restore восстанавливает последний сохранённый снапшот без повторной
// векторизации каталога. Манифест с несовместимой схемой слияния отклоняется
// с ErrInvalidDimension.
func (s *SnapshotUseCase) Restore(ctx context.Context) (*domain.Snapshot, error) {
	const op = "SnapshotUseCase.Restore"

	snapshot, err := s.snapshotRepo.GetLatest(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !s.weights.Matches(snapshot.TextDim, snapshot.ImageDim, snapshot.TextWeight, snapshot.ImageWeight) {
		s.logger.Errorf(e.ErrInvalidDimension,
			"snapshot %s was built with dims %d/%d weights %.2f/%.2f, configured %d/%d %.2f/%.2f",
			snapshot.ID,
			snapshot.TextDim, snapshot.ImageDim, snapshot.TextWeight, snapshot.ImageWeight,
			s.weights.TextDim, s.weights.ImageDim, s.weights.Text, s.weights.Image,
		)
		return nil, e.Wrap(op, e.ErrInvalidDimension)
	}

	entries, err := s.vectorRepo.LoadEntries(ctx, snapshot.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	idx, err := index.Build(snapshot.ID, entries)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if idx.Dim() != s.weights.CompositeDim() {
		return nil, e.Wrap(op, e.ErrInvalidDimension)
	}

	s.handle.Swap(idx)
	s.logger.Infof("snapshot %s restored: %d entries", snapshot.ID, idx.Len())

	return snapshot, nil
}

// embedCatalog векторизует каталог с ограничением числа одновременных
// обращений к провайдеру. Ошибки отдельных продуктов терпимы на этапе сборки:
// модальность помечается отсутствующей и логируется.
func (s *SnapshotUseCase) embedCatalog(ctx context.Context, products []domain.Product) []productVectors {
	vectors := make([]productVectors, len(products))
	sem := make(chan struct{}, s.maxConcurrent)

	var wg sync.WaitGroup
	for i := range products {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			product := &products[i]
			pv := productVectors{product: product}

			text, err := s.embedder.EmbedText(ctx, product.EmbeddingText())
			if err != nil {
				s.logger.Warnf("build: text embedding failed for product %s: %v", product.ID, err)
			} else {
				pv.text = text
			}

			if key := product.PrimaryImageKey(); key != "" {
				pv.image = s.embedImage(ctx, product.ID, key)
			}

			vectors[i] = pv
		}()
	}
	wg.Wait()

	return vectors
}

// embedImage получает байты изображения из хранилища и векторизует их.
// Любая ошибка означает отсутствие визуальной модальности у продукта.
func (s *SnapshotUseCase) embedImage(ctx context.Context, productID, key string) []float32 {
	data, err := s.images.FetchImage(ctx, key)
	if err != nil {
		s.logger.Warnf("build: image fetch failed for product %s, key=%s: %v", productID, key, err)
		return nil
	}

	vector, err := s.embedder.EmbedImage(ctx, data)
	if err != nil {
		s.logger.Warnf("build: image embedding failed for product %s: %v", productID, err)
		return nil
	}

	return vector
}

// fuseCatalog строит составные векторы и записи индекса.
// Продукты без единой модальности исключаются и подсчитываются.
func (s *SnapshotUseCase) fuseCatalog(vectors []productVectors) ([]domain.IndexEntry, []domain.Embedding, int) {
	entries := make([]domain.IndexEntry, 0, len(vectors))
	raw := make([]domain.Embedding, 0, len(vectors)*2)
	skipped := 0

	for _, pv := range vectors {
		composite, err := s.weights.Fuse(pv.text, pv.image)
		if err != nil {
			skipped++
			s.logger.Warnf("build: product %s excluded from index: %v", pv.product.ID, err)
			continue
		}

		if pv.text != nil {
			raw = append(raw, *domain.NewEmbedding(pv.product.ID, domain.ModalityText, pv.text))
		}
		if pv.image != nil {
			raw = append(raw, *domain.NewEmbedding(pv.product.ID, domain.ModalityImage, pv.image))
		}

		entries = append(entries, *domain.NewIndexEntry(
			pv.product.ID,
			composite,
			pv.product.Categories,
			pv.product.Price,
			pv.text != nil,
			pv.image != nil,
		))
	}

	return entries, raw, skipped
}

// persistManifest сохраняет манифест снапшота и сырые векторы одной транзакцией.
func (s *SnapshotUseCase) persistManifest(ctx context.Context, snapshot *domain.Snapshot, embeddings []domain.Embedding) error {
	const op = "SnapshotUseCase.persistManifest"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return e.Wrap(op, err)
	}

	if err = s.embeddingRepo.UpsertEmbeddings(ctx, embeddings); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// publishBuilt отправляет событие о сборке снапшота. Доставка необязательна:
// потребители перечитывают таблицу снапшотов, поэтому ошибка только логируется.
func (s *SnapshotUseCase) publishBuilt(ctx context.Context, snapshot *domain.Snapshot) {
	event := NewSnapshotBuiltEvent(uuid.NewString(), snapshot, s.weights.CompositeDim(), time.Now().UnixNano())
	if err := s.producer.PublishSnapshotBuilt(ctx, event); err != nil {
		s.logger.Warnf("failed to publish snapshot built event: %v", err)
	}
}
