// Package optimization orquesta el análisis de zonas contra el catálogo externo y
// aplica los traslados sugeridos.
package optimization

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/smartwms/internal/application/dto"
	"github.com/jhoicas/smartwms/internal/application/notify"
	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	domopt "github.com/jhoicas/smartwms/internal/domain/optimization"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

// Options ajustes del caso de uso.
type Options struct {
	// RecomputeAfterMove recalcula el análisis completo tras cada traslado en lugar de
	// sumar 1 punto a la eficiencia mostrada.
	RecomputeAfterMove bool
	// ShelfPicker devuelve el número de estante en [1,100]; nil usa math/rand/v2.
	ShelfPicker func() int
	Clock       func() time.Time
}

// StorageOptimizationUseCase mantiene el conjunto de sugerencias en memoria entre análisis.
// Las operaciones se serializan con mu, incluidas las llamadas al backend de ApplyMove.
type StorageOptimizationUseCase struct {
	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	movementRepo repository.MovementLogRepository
	notifier     notify.Notifier
	log          zerolog.Logger
	opts         Options

	mu         sync.Mutex
	current    *domopt.Analysis
	analyzedAt time.Time
	estimated  bool
}

// NewStorageOptimizationUseCase construye el caso de uso.
func NewStorageOptimizationUseCase(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	movementRepo repository.MovementLogRepository,
	notifier notify.Notifier,
	log zerolog.Logger,
	opts Options,
) *StorageOptimizationUseCase {
	if opts.ShelfPicker == nil {
		opts.ShelfPicker = randomShelf
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &StorageOptimizationUseCase{
		productRepo:  productRepo,
		txRepo:       txRepo,
		movementRepo: movementRepo,
		notifier:     notifier,
		log:          log,
		opts:         opts,
	}
}

// Analyze recalcula desde cero y reemplaza sugerencias, estadísticas y eficiencia.
func (uc *StorageOptimizationUseCase) Analyze(ctx context.Context) (*dto.OptimizationAnalysisDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.analyzeLocked(ctx); err != nil {
		return nil, err
	}
	return uc.snapshotLocked(), nil
}

// Current devuelve el último análisis; si no hay ninguno, lo calcula.
func (uc *StorageOptimizationUseCase) Current(ctx context.Context) (*dto.OptimizationAnalysisDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.current == nil {
		if err := uc.analyzeLocked(ctx); err != nil {
			return nil, err
		}
	}
	return uc.snapshotLocked(), nil
}

func (uc *StorageOptimizationUseCase) analyzeLocked(ctx context.Context) error {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("listar productos: %w", err)
	}
	txs, err := uc.txRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("listar transacciones: %w", err)
	}
	a := domopt.Analyze(products, txs)
	uc.current = &a
	uc.analyzedAt = uc.opts.Clock()
	uc.estimated = false
	uc.log.Info().
		Int("products", a.TotalProducts).
		Int("suggestions", len(a.Suggestions)).
		Int("efficiency", a.Efficiency).
		Msg("análisis de zonas completado")
	return nil
}

// ApplyMove traslada el producto de una sugerencia a un estante aleatorio de su zona ideal.
// Orden: actualizar producto → registrar movimiento → quitar sugerencia → ajustar eficiencia.
// Si alguna escritura falla la sugerencia se conserva y se publica un aviso de error; si falla
// el registro del movimiento se intenta restaurar la ubicación anterior.
func (uc *StorageOptimizationUseCase) ApplyMove(ctx context.Context, productID string) (*dto.ApplyMoveResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.current == nil {
		if err := uc.analyzeLocked(ctx); err != nil {
			return nil, err
		}
	}
	s, ok := domopt.Find(uc.current.Suggestions, productID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	newLocation := shelfLocation(s.IdealZone, uc.opts.ShelfPicker())
	now := uc.opts.Clock()

	updated := entity.ProductDraft{Location: &newLocation}.ApplyTo(s.Product, now)
	if _, err := uc.productRepo.Update(ctx, updated); err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("actualizar ubicación")
		uc.notifier.Error("Error de conexión: no se pudo actualizar la ubicación.")
		return nil, fmt.Errorf("actualizar ubicación: %w", err)
	}

	entry := &entity.MovementLog{
		ProductID:    s.Product.ID,
		ProductName:  s.Product.Name,
		SKU:          s.Product.SKU,
		FromLocation: s.Product.Location,
		ToLocation:   newLocation,
		Date:         now,
	}
	logged, err := uc.movementRepo.Append(ctx, entry)
	if err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("registrar movimiento")
		uc.restoreLocation(ctx, s.Product)
		uc.notifier.Error("Error de conexión: no se pudo registrar el traslado.")
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	if logged == nil {
		logged = entry
	}

	uc.current.Suggestions = domopt.Without(uc.current.Suggestions, productID)
	if uc.opts.RecomputeAfterMove {
		if err := uc.analyzeLocked(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("recálculo tras traslado; se usa la estimación")
			uc.bumpEfficiencyLocked()
		}
	} else {
		uc.bumpEfficiencyLocked()
	}

	uc.log.Info().
		Str("product_id", productID).
		Str("from", entry.FromLocation).
		Str("to", newLocation).
		Msg("traslado aplicado")
	uc.notifier.Success(fmt.Sprintf("Se trasladó %q a la ubicación %s", s.Product.Name, newLocation))

	return &dto.ApplyMoveResponse{
		Movement:             movementToDTO(logged),
		NewLocation:          newLocation,
		Efficiency:           uc.current.Efficiency,
		EfficiencyIsEstimate: uc.estimated,
		PendingMoves:         len(uc.current.Suggestions),
	}, nil
}

// bumpEfficiencyLocked estimación optimista: +1 punto, tope 100.
func (uc *StorageOptimizationUseCase) bumpEfficiencyLocked() {
	uc.current.Efficiency = min(100, uc.current.Efficiency+1)
	uc.estimated = true
}

func (uc *StorageOptimizationUseCase) restoreLocation(ctx context.Context, original *entity.Product) {
	previous := original.Location
	restore := entity.ProductDraft{Location: &previous}.ApplyTo(original, uc.opts.Clock())
	if _, err := uc.productRepo.Update(ctx, restore); err != nil {
		uc.log.Error().Err(err).
			Str("product_id", original.ID).
			Str("location", original.Location).
			Msg("no se pudo restaurar la ubicación anterior")
	}
}

// History lista los traslados registrados, más recientes primero, y el total sin paginar.
func (uc *StorageOptimizationUseCase) History(ctx context.Context, page dto.PageRequest) ([]dto.MovementLogDTO, int, error) {
	logs, err := uc.movementRepo.List(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar historial de traslados")
		uc.notifier.Error("No se pudo cargar el historial de traslados")
		return nil, 0, fmt.Errorf("listar movimientos: %w", err)
	}
	page.DefaultPage()
	out := make([]dto.MovementLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, movementToDTO(l))
	}
	return dto.Paginate(out, page), len(out), nil
}

func (uc *StorageOptimizationUseCase) snapshotLocked() *dto.OptimizationAnalysisDTO {
	a := uc.current
	out := &dto.OptimizationAnalysisDTO{
		Efficiency:        a.Efficiency,
		CorrectPlacements: a.CorrectPlacements,
		TotalProducts:     a.TotalProducts,
		Suggestions:       make([]dto.MoveSuggestionDTO, 0, len(a.Suggestions)),
		CurrentZones: []dto.ZoneCountDTO{
			{Zone: "A", Count: a.CurrentZones.A},
			{Zone: "B", Count: a.CurrentZones.B},
			{Zone: "C", Count: a.CurrentZones.C},
			{Zone: "Other", Count: a.CurrentZones.Other},
		},
		IdealZones: []dto.ZoneCountDTO{
			{Zone: "A", Count: a.IdealZones.A},
			{Zone: "B", Count: a.IdealZones.B},
			{Zone: "C", Count: a.IdealZones.C},
		},
		AnalyzedAt: uc.analyzedAt,
	}
	for _, s := range a.Suggestions {
		out.Suggestions = append(out.Suggestions, dto.MoveSuggestionDTO{
			Product: dto.ProductRefDTO{
				ID:       s.Product.ID,
				Name:     s.Product.Name,
				SKU:      s.Product.SKU,
				Location: s.Product.Location,
			},
			CurrentZone:   string(s.CurrentZone),
			IdealZone:     string(s.IdealZone),
			VelocityScore: s.VelocityScore,
			Reason:        s.Reason,
		})
	}
	return out
}

func movementToDTO(m *entity.MovementLog) dto.MovementLogDTO {
	return dto.MovementLogDTO{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		SKU:          m.SKU,
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		Date:         m.Date,
	}
}

// randomShelf estante al azar en [1,100].
func randomShelf() int { return rand.IntN(100) + 1 }

// shelfLocation arma "<zona>-<estante>" con al menos dos dígitos (A-07, A-100).
func shelfLocation(zone domopt.Zone, shelf int) string {
	return fmt.Sprintf("%s-%02d", zone, shelf)
}
