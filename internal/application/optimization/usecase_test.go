package optimization_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smartwms/internal/application/dto"
	appopt "github.com/jhoicas/smartwms/internal/application/optimization"
	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(m string) { n.successes = append(n.successes, m) }
func (n *recordingNotifier) Error(m string)   { n.errors = append(n.errors, m) }

// flakyProducts falla en Update a partir de la llamada failFrom (1-based); 0 = nunca.
type flakyProducts struct {
	*memory.Store
	calls    int
	failFrom int
}

func (f *flakyProducts) Update(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	f.calls++
	if f.failFrom > 0 && f.calls >= f.failFrom {
		return nil, fmt.Errorf("backend: %w", domain.ErrExternal)
	}
	return f.Store.Update(ctx, p)
}

type failingMovements struct{ *memory.MovementStore }

func (failingMovements) Append(context.Context, *entity.MovementLog) (*entity.MovementLog, error) {
	return nil, errors.New("timeout")
}

var now = time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)

type fixture struct {
	products  *flakyProducts
	txs       *memory.TransactionStore
	movements *memory.MovementStore
	notifier  *recordingNotifier
}

// newFixture: 5 productos; p1 vende más y está en C → debe ir a A.
func newFixture() *fixture {
	store := memory.NewStore(
		&entity.Product{ID: "p1", Name: "iPhone 15", SKU: "IP15", Location: "C-10"},
		&entity.Product{ID: "p2", Name: "Pixel 8", SKU: "PX8", Location: "B-01"},
		&entity.Product{ID: "p3", Name: "Galaxy", SKU: "GS", Location: "C-02"},
		&entity.Product{ID: "p4", Name: "Xperia", SKU: "XP", Location: "C-03"},
		&entity.Product{ID: "p5", Name: "Moto G", SKU: "MG", Location: "c-04"},
	)
	txs := memory.NewTransactionStore(
		&entity.Transaction{ProductID: "p1", Type: entity.TransactionExport, Quantity: 30},
		&entity.Transaction{ProductID: "p2", Type: entity.TransactionExport, Quantity: 20},
		&entity.Transaction{ProductID: "p3", Type: entity.TransactionExport, Quantity: 1},
		&entity.Transaction{ProductID: "p4", Type: entity.TransactionImport, Quantity: 99},
	)
	return &fixture{
		products:  &flakyProducts{Store: store},
		txs:       txs,
		movements: memory.NewMovementStore(),
		notifier:  &recordingNotifier{},
	}
}

func (f *fixture) useCase(opts appopt.Options) *appopt.StorageOptimizationUseCase {
	if opts.ShelfPicker == nil {
		opts.ShelfPicker = func() int { return 7 }
	}
	opts.Clock = func() time.Time { return now }
	return appopt.NewStorageOptimizationUseCase(f.products, f.txs, f.movements, f.notifier, zerolog.Nop(), opts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalyze_SugerenciasYEficiencia(t *testing.T) {
	f := newFixture()
	uc := f.useCase(appopt.Options{})

	a, err := uc.Analyze(context.Background())
	require.NoError(t, err)

	// Orden: p1(30) A, p2(20) B, p3(1) C, p4(0) C, p5(0) C.
	require.Len(t, a.Suggestions, 1)
	assert.Equal(t, "p1", a.Suggestions[0].Product.ID)
	assert.Equal(t, "C", a.Suggestions[0].CurrentZone)
	assert.Equal(t, "A", a.Suggestions[0].IdealZone)
	assert.Equal(t, 30, a.Suggestions[0].VelocityScore)
	assert.Equal(t, 4, a.CorrectPlacements)
	assert.Equal(t, 5, a.TotalProducts)
	assert.Equal(t, 80, a.Efficiency)
	assert.Equal(t, []dto.ZoneCountDTO{{Zone: "A"}, {Zone: "B", Count: 1}, {Zone: "C", Count: 4}, {Zone: "Other"}}, a.CurrentZones)
	assert.Equal(t, []dto.ZoneCountDTO{{Zone: "A", Count: 1}, {Zone: "B", Count: 1}, {Zone: "C", Count: 3}}, a.IdealZones)
}

func TestAnalyze_IdempotenteSinCambios(t *testing.T) {
	f := newFixture()
	uc := f.useCase(appopt.Options{})
	first, err := uc.Analyze(context.Background())
	require.NoError(t, err)
	second, err := uc.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApplyMove_Exito(t *testing.T) {
	f := newFixture()
	uc := f.useCase(appopt.Options{})
	_, err := uc.Analyze(context.Background())
	require.NoError(t, err)

	res, err := uc.ApplyMove(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "A-07", res.NewLocation)
	assert.Equal(t, "C-10", res.Movement.FromLocation)
	assert.Equal(t, "A-07", res.Movement.ToLocation)
	assert.Equal(t, 81, res.Efficiency, "estimación optimista +1")
	assert.True(t, res.EfficiencyIsEstimate)
	assert.Zero(t, res.PendingMoves)

	p, _ := f.products.Get("p1")
	assert.Equal(t, "A-07", p.Location)
	assert.Equal(t, now, p.LastUpdated)

	logs, _ := f.movements.List(context.Background())
	require.Len(t, logs, 1)
	assert.Equal(t, "IP15", logs[0].SKU)
	require.Len(t, f.notifier.successes, 1)
	assert.Contains(t, f.notifier.successes[0], "A-07")

	cur, err := uc.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cur.Suggestions)
}

func TestApplyMove_EstanteDeTresDigitosYCamposIntactos(t *testing.T) {
	f := newFixture()
	f.products.Put(&entity.Product{ID: "p1", Name: "iPhone 15", SKU: "IP15", Location: "C-10",
		Quantity: 12, Serials: []string{"356938035643809"}})
	uc := f.useCase(appopt.Options{ShelfPicker: func() int { return 100 }})

	res, err := uc.ApplyMove(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "A-100", res.NewLocation)

	p, _ := f.products.Get("p1")
	assert.Equal(t, "A-100", p.Location)
	assert.Equal(t, "iPhone 15", p.Name)
	assert.Equal(t, 12, p.Quantity)
	assert.Equal(t, []string{"356938035643809"}, p.Serials)
	assert.Equal(t, now, p.LastUpdated)
}

func TestApplyMove_EficienciaConTope(t *testing.T) {
	// 200 productos con velocidad descendente; solo el último (ideal C) está en B.
	// 199/200 = 99.5% → redondea a 100 y la estimación no puede superarlo.
	f := newFixture()
	store := memory.NewStore()
	txs := memory.NewTransactionStore()
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("p%03d", i)
		loc := "C-01"
		switch {
		case i < 40:
			loc = "A-01"
		case i < 100:
			loc = "B-01"
		case i == 199:
			loc = "B-02"
		}
		store.Put(&entity.Product{ID: id, Name: id, SKU: id, Location: loc})
		txs.Add(&entity.Transaction{ProductID: id, Type: entity.TransactionExport, Quantity: 1000 - i})
	}
	f.products.Store = store
	f.txs = txs
	uc := f.useCase(appopt.Options{})

	a, err := uc.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, a.Suggestions, 1)
	assert.Equal(t, 100, a.Efficiency)

	res, err := uc.ApplyMove(context.Background(), "p199")
	require.NoError(t, err)
	assert.Equal(t, "C-07", res.NewLocation)
	assert.Equal(t, 100, res.Efficiency)
}

func TestApplyMove_RecalculoCompleto(t *testing.T) {
	f := newFixture()
	uc := f.useCase(appopt.Options{RecomputeAfterMove: true})
	_, err := uc.Analyze(context.Background())
	require.NoError(t, err)

	res, err := uc.ApplyMove(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Efficiency)
	assert.False(t, res.EfficiencyIsEstimate)
}

func TestApplyMove_SugerenciaInexistente(t *testing.T) {
	f := newFixture()
	uc := f.useCase(appopt.Options{})
	_, err := uc.ApplyMove(context.Background(), "p2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMove_FallaActualizacionProducto(t *testing.T) {
	f := newFixture()
	f.products.failFrom = 1
	uc := f.useCase(appopt.Options{})
	_, err := uc.Analyze(context.Background())
	require.NoError(t, err)

	_, err = uc.ApplyMove(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternal)
	assert.Len(t, f.notifier.errors, 1)

	cur, _ := uc.Current(context.Background())
	assert.Len(t, cur.Suggestions, 1, "la sugerencia se conserva")
	assert.Equal(t, 80, cur.Efficiency)
	logs, _ := f.movements.List(context.Background())
	assert.Empty(t, logs)
}

func TestApplyMove_FallaRegistroMovimientoRestauraUbicacion(t *testing.T) {
	f := newFixture()
	uc := appopt.NewStorageOptimizationUseCase(
		f.products, f.txs, failingMovements{f.movements}, f.notifier, zerolog.Nop(),
		appopt.Options{ShelfPicker: func() int { return 42 }, Clock: func() time.Time { return now }},
	)
	_, err := uc.Analyze(context.Background())
	require.NoError(t, err)

	_, err = uc.ApplyMove(context.Background(), "p1")
	require.Error(t, err)
	require.Len(t, f.notifier.errors, 1, "fallo visible para el usuario")
	assert.Empty(t, f.notifier.successes)

	cur, _ := uc.Current(context.Background())
	require.Len(t, cur.Suggestions, 1)
	assert.Equal(t, "p1", cur.Suggestions[0].Product.ID)

	p, _ := f.products.Get("p1")
	assert.Equal(t, "C-10", p.Location, "ubicación restaurada")
	assert.Equal(t, 2, f.products.calls)
}

func TestHistory_Paginado(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		_, _ = f.movements.Append(context.Background(), &entity.MovementLog{
			ProductID: "p1", FromLocation: "C-1", ToLocation: "A-1", Date: now.Add(time.Duration(i) * time.Minute),
		})
	}
	uc := f.useCase(appopt.Options{})

	all, total, err := uc.History(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, total)
	assert.True(t, all[0].Date.After(all[2].Date))

	page, total, err := uc.History(context.Background(), dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, 3, total)
}
