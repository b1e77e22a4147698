package usecase

import (
	"context"
	"testing"

	"github.com/ikarus-tech/reco-backend/internal/domain"
	"github.com/ikarus-tech/reco-backend/internal/fusion"
	"github.com/ikarus-tech/reco-backend/internal/index"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotRepo struct {
	latest    *domain.Snapshot
	latestErr error
	createErr error
	created   []*domain.Snapshot
}

func (f *fakeSnapshotRepo) Create(_ context.Context, snapshot *domain.Snapshot) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, snapshot)
	return nil
}

func (f *fakeSnapshotRepo) GetLatest(_ context.Context) (*domain.Snapshot, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

type fakeVectorRepo struct {
	entries    []domain.IndexEntry
	loadErr    error
	upserted   []domain.IndexEntry
	upsertedID string
	prunedKeep string
}

func (f *fakeVectorRepo) UpsertEntries(_ context.Context, snapshotID string, entries []domain.IndexEntry) error {
	f.upsertedID = snapshotID
	f.upserted = entries
	return nil
}

func (f *fakeVectorRepo) PruneGenerations(_ context.Context, keepSnapshotID string) error {
	f.prunedKeep = keepSnapshotID
	return nil
}

func (f *fakeVectorRepo) LoadEntries(_ context.Context, _ string) ([]domain.IndexEntry, error) {
	return f.entries, f.loadErr
}

// fakeTx покрывает pgx.Tx ровно настолько, насколько его трогает
// транзакционная обёртка: Commit и Rollback.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return f, nil }

func (f *fakeTx) Commit(_ context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(_ context.Context) error {
	f.rolledBack = true
	return nil
}

func (f *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (f *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (f *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }

func (f *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return nil }

func (f *fakeTx) Conn() *pgx.Conn { return nil }

type fakeTxBeginner struct {
	tx fakeTx
}

func (f *fakeTxBeginner) BeginTx(_ context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	return &f.tx, nil
}

type fakeEmbeddingRepo struct {
	upserted []domain.Embedding
}

func (f *fakeEmbeddingRepo) UpsertEmbeddings(_ context.Context, embeddings []domain.Embedding) error {
	f.upserted = append(f.upserted, embeddings...)
	return nil
}

type fakeProducer struct {
	events []*SnapshotBuiltEvent
}

func (f *fakeProducer) PublishSnapshotBuilt(_ context.Context, event *SnapshotBuiltEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newTestSnapshotUC(
	products []domain.Product,
	embedder *fakeEmbedder,
	snapshotRepo *fakeSnapshotRepo,
	vectorRepo *fakeVectorRepo,
	handle *index.Handle,
) *SnapshotUseCase {
	return NewSnapshotUC(
		&fakeProductRepo{products: products},
		&fakeEmbeddingRepo{},
		snapshotRepo,
		vectorRepo,
		embedder,
		&fakeImages{},
		&fakeProducer{},
		handle,
		&fakeTxBeginner{},
		testWeights(),
		0.5,
		4,
		logger.NewSlogLogger(),
	)
}

func catalogProducts(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, *domain.NewProduct(
			string(rune('a'+i)), "Chair", "A chair", "Wooden Co", "oak",
			[]string{"chairs"}, 10000, nil,
		))
	}
	return products
}

func TestRebuild_EmptyCatalog(t *testing.T) {
	uc := newTestSnapshotUC(nil, &fakeEmbedder{}, &fakeSnapshotRepo{}, &fakeVectorRepo{}, index.NewHandle())

	_, err := uc.Rebuild(context.Background())
	assert.ErrorIs(t, err, e.ErrNoProducts)
}

func TestRebuild_AbortsWhenTooManyProductsMissEmbeddings(t *testing.T) {
	// Провайдер недоступен, изображений нет: ни у одного продукта нет модальностей.
	embedder := &fakeEmbedder{textErr: e.ErrProviderUnavailable}
	handle := index.NewHandle()
	uc := newTestSnapshotUC(catalogProducts(4), embedder, &fakeSnapshotRepo{}, &fakeVectorRepo{}, handle)

	_, err := uc.Rebuild(context.Background())
	require.ErrorIs(t, err, e.ErrBuildAborted)

	// Обслуживаемый индекс не подменяется при прерванной сборке.
	assert.Nil(t, handle.Current())
}

func TestRebuild_PersistsSwapsAndPublishes(t *testing.T) {
	embedder := &fakeEmbedder{textVec: []float32{1, 0}}
	snapshotRepo := &fakeSnapshotRepo{}
	vectorRepo := &fakeVectorRepo{}
	embeddingRepo := &fakeEmbeddingRepo{}
	producer := &fakeProducer{}
	handle := index.NewHandle()
	pool := &fakeTxBeginner{}

	uc := NewSnapshotUC(
		&fakeProductRepo{products: catalogProducts(3)},
		embeddingRepo,
		snapshotRepo,
		vectorRepo,
		embedder,
		&fakeImages{},
		producer,
		handle,
		pool,
		testWeights(),
		0.5,
		4,
		logger.NewSlogLogger(),
	)

	snapshot, err := uc.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.ProductCount)
	assert.Equal(t, 3, snapshot.IndexedCount)
	assert.Equal(t, 0, snapshot.SkippedCount)

	// Манифест и сырые векторы зафиксированы одной транзакцией.
	require.Len(t, snapshotRepo.created, 1)
	assert.Equal(t, snapshot.ID, snapshotRepo.created[0].ID)
	assert.Len(t, embeddingRepo.upserted, 3)
	assert.True(t, pool.tx.committed)

	// Точки нового поколения записаны под идентификатором манифеста.
	assert.Equal(t, snapshot.ID, vectorRepo.upsertedID)
	assert.Len(t, vectorRepo.upserted, 3)

	idx := handle.Current()
	require.NotNil(t, idx)
	assert.Equal(t, snapshot.ID, idx.SnapshotID())
	assert.Equal(t, 3, idx.Len())

	// Прежние поколения вычищаются только после фиксации и подмены.
	assert.Equal(t, snapshot.ID, vectorRepo.prunedKeep)

	require.Len(t, producer.events, 1)
	assert.Equal(t, snapshot.ID, producer.events[0].SnapshotID)
	assert.Equal(t, testWeights().CompositeDim(), producer.events[0].CompositeDim)
}

func TestRebuild_FailedManifestKeepsPriorGeneration(t *testing.T) {
	embedder := &fakeEmbedder{textVec: []float32{1, 0}}
	snapshotRepo := &fakeSnapshotRepo{createErr: assert.AnError}
	vectorRepo := &fakeVectorRepo{}
	producer := &fakeProducer{}
	handle := index.NewHandle()
	pool := &fakeTxBeginner{}

	uc := NewSnapshotUC(
		&fakeProductRepo{products: catalogProducts(3)},
		&fakeEmbeddingRepo{},
		snapshotRepo,
		vectorRepo,
		embedder,
		&fakeImages{},
		producer,
		handle,
		pool,
		testWeights(),
		0.5,
		4,
		logger.NewSlogLogger(),
	)

	_, err := uc.Rebuild(context.Background())
	require.Error(t, err)

	// Транзакция откатана, точки прежнего поколения не тронуты: после рестарта
	// восстановление по последнему манифесту находит полный набор точек.
	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)
	assert.Empty(t, vectorRepo.prunedKeep)
	assert.Nil(t, handle.Current())
	assert.Empty(t, producer.events)
}

func TestRestore_SnapshotNotFound(t *testing.T) {
	snapshotRepo := &fakeSnapshotRepo{latestErr: e.ErrSnapshotNotFound}
	uc := newTestSnapshotUC(nil, &fakeEmbedder{}, snapshotRepo, &fakeVectorRepo{}, index.NewHandle())

	_, err := uc.Restore(context.Background())
	assert.ErrorIs(t, err, e.ErrSnapshotNotFound)
}

func TestRestore_RejectsIncompatibleManifest(t *testing.T) {
	// Манифест собран с другими размерностями модальностей.
	snapshotRepo := &fakeSnapshotRepo{
		latest: domain.NewSnapshot("snap-old", 384, 512, 0.7, 0.3, 10, 10, 0),
	}
	uc := newTestSnapshotUC(nil, &fakeEmbedder{}, snapshotRepo, &fakeVectorRepo{}, index.NewHandle())

	_, err := uc.Restore(context.Background())
	assert.ErrorIs(t, err, e.ErrInvalidDimension)
}

func TestRestore_SwapsHandle(t *testing.T) {
	w := testWeights()
	snapshotRepo := &fakeSnapshotRepo{
		latest: domain.NewSnapshot("snap-1", w.TextDim, w.ImageDim, w.Text, w.Image, 2, 2, 0),
	}

	composite, err := w.Fuse([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	vectorRepo := &fakeVectorRepo{entries: []domain.IndexEntry{
		*domain.NewIndexEntry("p1", composite, []string{"chairs"}, 10000, true, true),
		*domain.NewIndexEntry("p2", composite, []string{"sofas"}, 20000, true, true),
	}}

	handle := index.NewHandle()
	uc := newTestSnapshotUC(nil, &fakeEmbedder{}, snapshotRepo, vectorRepo, handle)

	snapshot, err := uc.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snapshot.ID)

	idx := handle.Current()
	require.NotNil(t, idx)
	assert.Equal(t, "snap-1", idx.SnapshotID())
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, w.CompositeDim(), idx.Dim())
}

func TestRestore_EmptyStoredSnapshot(t *testing.T) {
	w := testWeights()
	snapshotRepo := &fakeSnapshotRepo{
		latest: domain.NewSnapshot("snap-empty", w.TextDim, w.ImageDim, w.Text, w.Image, 0, 0, 0),
	}
	uc := newTestSnapshotUC(nil, &fakeEmbedder{}, snapshotRepo, &fakeVectorRepo{}, index.NewHandle())

	_, err := uc.Restore(context.Background())
	assert.ErrorIs(t, err, e.ErrNoProducts)
}

func TestFuseCatalog_SkipsProductsWithoutModalities(t *testing.T) {
	uc := newTestSnapshotUC(nil, &fakeEmbedder{}, &fakeSnapshotRepo{}, &fakeVectorRepo{}, index.NewHandle())

	products := catalogProducts(3)
	vectors := []productVectors{
		{product: &products[0], text: []float32{1, 0}, image: []float32{0, 1}},
		{product: &products[1], text: []float32{1, 0}},
		{product: &products[2]},
	}

	entries, raw, skipped := uc.fuseCatalog(vectors)

	assert.Len(t, entries, 2)
	assert.Equal(t, 1, skipped)
	// Сырые векторы сохраняются только для присутствующих модальностей.
	assert.Len(t, raw, 3)

	assert.True(t, entries[0].HasText)
	assert.True(t, entries[0].HasImage)
	assert.True(t, entries[1].HasText)
	assert.False(t, entries[1].HasImage)
}

func TestEmbeddingWeightsRoundTrip(t *testing.T) {
	w := fusion.NewWeights(0.7, 0.3, 2, 2)
	snapshot := domain.NewSnapshot("s", w.TextDim, w.ImageDim, w.Text, w.Image, 1, 1, 0)

	assert.True(t, w.Matches(snapshot.TextDim, snapshot.ImageDim, snapshot.TextWeight, snapshot.ImageWeight))
}
