// Package stocktake orquesta las sesiones de inventario físico: inicio desde el catálogo,
// ajustes manuales y por escaneo, finalización y exportación.
package stocktake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/smartwms/internal/application/dto"
	"github.com/jhoicas/smartwms/internal/application/notify"
	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
	domst "github.com/jhoicas/smartwms/internal/domain/stocktake"
)

// ConfirmationError se devuelve al finalizar con diferencias sin confirmación explícita.
type ConfirmationError struct {
	TotalDifference int
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("se detectó una diferencia de %d unidades; confirme para finalizar", e.TotalDifference)
}

func (e *ConfirmationError) Unwrap() error { return domain.ErrConfirmationRequired }

// Options ajustes del caso de uso.
type Options struct {
	DebounceWindow time.Duration
	Clock          func() time.Time
	NewID          func() string
}

// draft sesión en edición con su escáner. mu serializa ajustes y escaneos.
type draft struct {
	mu      sync.Mutex
	session *domst.Session
	scanner *domst.Scanner
}

func (d *draft) closeScanner() {
	if d.scanner != nil {
		d.scanner.Close()
		d.scanner = nil
	}
}

// StocktakeUseCase registro de sesiones en curso (solo memoria) más persistencia al finalizar.
// Una sesión abandonada simplemente se descarta.
type StocktakeUseCase struct {
	productRepo repository.ProductRepository
	sessionRepo repository.StocktakeRepository
	notifier    notify.Notifier
	csv         CSVExporter
	pdf         ReportGenerator
	feedback    ScanFeedback
	log         zerolog.Logger
	opts        Options

	mu     sync.RWMutex
	drafts map[string]*draft
}

// NewStocktakeUseCase construye el caso de uso. feedback puede ser nil.
func NewStocktakeUseCase(
	productRepo repository.ProductRepository,
	sessionRepo repository.StocktakeRepository,
	notifier notify.Notifier,
	csv CSVExporter,
	pdf ReportGenerator,
	feedback ScanFeedback,
	log zerolog.Logger,
	opts Options,
) *StocktakeUseCase {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = domst.DefaultDebounceWindow
	}
	return &StocktakeUseCase{
		productRepo: productRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		csv:         csv,
		pdf:         pdf,
		feedback:    feedback,
		log:         log,
		opts:        opts,
		drafts:      make(map[string]*draft),
	}
}

// Start crea una sesión con el catálogo actual en modo normal o ciego.
func (uc *StocktakeUseCase) Start(ctx context.Context, mode string) (*dto.StocktakeDraftDTO, error) {
	m, err := domst.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	s := domst.Start(uc.opts.NewID(), m, products, uc.opts.Clock())
	d := &draft{session: s}

	uc.mu.Lock()
	uc.drafts[s.ID()] = d
	uc.mu.Unlock()

	uc.log.Info().Str("session_id", s.ID()).Str("mode", string(m)).Int("items", len(products)).Msg("inventario iniciado")
	return draftToDTO(d, "", ""), nil
}

func (uc *StocktakeUseCase) get(id string) (*draft, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	d, ok := uc.drafts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// Get vista de trabajo filtrada por texto (nombre/SKU) y categoría.
func (uc *StocktakeUseCase) Get(id, search, category string) (*dto.StocktakeDraftDTO, error) {
	d, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return draftToDTO(d, search, category), nil
}

// Drafts IDs de las sesiones en curso, de la más antigua a la más reciente.
func (uc *StocktakeUseCase) Drafts() []string {
	uc.mu.RLock()
	drafts := make([]*domst.Session, 0, len(uc.drafts))
	for _, d := range uc.drafts {
		drafts = append(drafts, d.session)
	}
	uc.mu.RUnlock()

	sort.Slice(drafts, func(i, j int) bool {
		a, b := drafts[i].StartedAt(), drafts[j].StartedAt()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return drafts[i].ID() < drafts[j].ID()
	})
	ids := make([]string, len(drafts))
	for i, s := range drafts {
		ids[i] = s.ID()
	}
	return ids
}

// AdjustQuantity fija la cantidad contada (y opcionalmente la nota) de un producto.
// Un producto inexistente se ignora: devuelve (nil, nil) sin cambios.
func (uc *StocktakeUseCase) AdjustQuantity(id, productID string, actual *int, note *string) (*dto.StocktakeItemDTO, error) {
	d, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.session.Item(productID); !ok {
		uc.log.Debug().Str("session_id", id).Str("product_id", productID).Msg("ajuste de producto inexistente ignorado")
		return nil, nil
	}
	if actual != nil {
		if _, _, err := d.session.Adjust(productID, *actual); err != nil {
			return nil, err
		}
	}
	if note != nil {
		if _, err := d.session.SetItemNote(productID, *note); err != nil {
			return nil, err
		}
	}
	item, _ := d.session.Item(productID)
	out := itemToDTO(item, d.session.Mode() == domst.ModeBlind)
	return &out, nil
}

// SetNotes fija las notas generales de la sesión.
func (uc *StocktakeUseCase) SetNotes(id, notes string) error {
	d, err := uc.get(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.SetNotes(notes)
}

// OpenScanner registra el manejador de escaneo de la sesión. Si ya había uno, se libera
// antes de registrar el nuevo.
func (uc *StocktakeUseCase) OpenScanner(id string) error {
	d, err := uc.get(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session.Status() != entity.StocktakeStatusDraft {
		return domain.ErrSessionCompleted
	}
	d.closeScanner()
	d.scanner = domst.OpenScanner(d.session, uc.opts.DebounceWindow, func(code, productID string) {
		if uc.feedback != nil {
			uc.feedback.ScanMatched(id, code, productID)
		}
	})
	uc.log.Debug().Str("session_id", id).Msg("escáner abierto")
	return nil
}

// CloseScanner libera el manejador de escaneo. Idempotente.
func (uc *StocktakeUseCase) CloseScanner(id string) error {
	d, err := uc.get(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeScanner()
	return nil
}

// Scan procesa un texto decodificado por la cámara. decodeErr != "" indica fotograma
// ilegible y se ignora en silencio.
func (uc *StocktakeUseCase) Scan(id, code, decodeErr string) (*dto.ScanResultDTO, error) {
	d, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scanner == nil {
		return nil, domain.ErrScannerClosed
	}

	ev := domst.ScanEvent{Text: code, At: uc.opts.Clock()}
	if decodeErr != "" {
		ev.DecodeErr = errors.New(decodeErr)
	}
	outcome, err := d.scanner.Handle(ev)
	if err != nil {
		return nil, err
	}
	res := &dto.ScanResultDTO{Outcome: outcome.String(), LastScannedID: d.session.LastScannedID()}
	switch outcome {
	case domst.ScanUnmatched:
		uc.log.Warn().Str("session_id", id).Str("code", code).Msg("código escaneado sin producto")
	case domst.ScanMatched:
		if item, ok := d.session.Item(d.session.LastScannedID()); ok {
			out := itemToDTO(item, d.session.Mode() == domst.ModeBlind)
			res.Item = &out
		}
	}
	return res, nil
}

// Finalize persiste la sesión como COMPLETED. Con diferencias exige confirm == true.
// Si la persistencia falla, la sesión sigue en edición y se publica un aviso de error.
func (uc *StocktakeUseCase) Finalize(ctx context.Context, id, notes string, confirm bool) (*dto.StocktakeSessionDTO, error) {
	d, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	record, err := d.session.Finalize(notes, confirm, uc.opts.Clock())
	if err != nil {
		if errors.Is(err, domain.ErrConfirmationRequired) {
			return nil, &ConfirmationError{TotalDifference: d.session.TotalDifference()}
		}
		return nil, err
	}

	saved, err := uc.sessionRepo.Create(ctx, record)
	if err != nil {
		uc.log.Error().Err(err).Str("session_id", id).Msg("guardar inventario")
		uc.notifier.Error("No se pudo guardar el inventario. Intente de nuevo.")
		return nil, fmt.Errorf("guardar inventario: %w", err)
	}
	if saved == nil {
		saved = record
	}

	d.session.MarkCompleted()
	d.closeScanner()
	uc.mu.Lock()
	delete(uc.drafts, id)
	uc.mu.Unlock()

	uc.log.Info().
		Str("session_id", saved.ID).
		Int("items", len(saved.Items)).
		Int("total_difference", saved.TotalDifference).
		Msg("inventario finalizado")
	uc.notifier.Success(fmt.Sprintf("Inventario guardado (diferencia total: %d)", saved.TotalDifference))
	out := sessionToDTO(saved)
	return &out, nil
}

// Abandon descarta una sesión en curso sin persistirla y libera su escáner.
func (uc *StocktakeUseCase) Abandon(id string) error {
	d, err := uc.get(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.closeScanner()
	d.mu.Unlock()

	uc.mu.Lock()
	delete(uc.drafts, id)
	uc.mu.Unlock()
	uc.log.Info().Str("session_id", id).Msg("inventario abandonado")
	return nil
}

// List sesiones finalizadas.
func (uc *StocktakeUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.StocktakeSessionDTO, int, error) {
	sessions, err := uc.sessionRepo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listar inventarios: %w", err)
	}
	page.DefaultPage()
	out := make([]dto.StocktakeSessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionToDTO(s))
	}
	return dto.Paginate(out, page), len(out), nil
}

func (uc *StocktakeUseCase) find(ctx context.Context, id string) (*entity.StocktakeSession, error) {
	sessions, err := uc.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar inventarios: %w", err)
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ExportCSV escribe la sesión finalizada id en w y devuelve el nombre de archivo sugerido.
func (uc *StocktakeUseCase) ExportCSV(ctx context.Context, id string, w io.Writer) (string, error) {
	s, err := uc.find(ctx, id)
	if err != nil {
		return "", err
	}
	if err := uc.csv.WriteStocktake(w, s); err != nil {
		return "", fmt.Errorf("exportar CSV: %w", err)
	}
	return uc.csv.FileName(s), nil
}

// ExportPDF genera el informe PDF de la sesión finalizada id.
func (uc *StocktakeUseCase) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	s, err := uc.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateStocktakePDF(ctx, s)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return b, fmt.Sprintf("stocktake_%s.pdf", s.Date.Format("2006-01-02")), nil
}

func itemToDTO(it entity.StocktakeItem, blind bool) dto.StocktakeItemDTO {
	out := dto.StocktakeItemDTO{
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		SKU:            it.SKU,
		ActualQuantity: it.ActualQuantity,
		Notes:          it.Notes,
	}
	if !blind {
		sys, diff := it.SystemQuantity, it.Difference
		out.SystemQuantity = &sys
		out.Difference = &diff
	}
	return out
}

func draftToDTO(d *draft, search, category string) *dto.StocktakeDraftDTO {
	s := d.session
	blind := s.Mode() == domst.ModeBlind
	items := s.Filter(search, category)
	out := &dto.StocktakeDraftDTO{
		ID:            s.ID(),
		Mode:          string(s.Mode()),
		Status:        s.Status(),
		StartedAt:     s.StartedAt(),
		Notes:         s.Notes(),
		Items:         make([]dto.StocktakeItemDTO, 0, len(items)),
		LastScannedID: s.LastScannedID(),
		ScannerActive: d.scanner != nil,
	}
	for _, it := range items {
		out.Items = append(out.Items, itemToDTO(it, blind))
	}
	if !blind {
		total := s.TotalDifference()
		out.TotalDifference = &total
	}
	return out
}

func sessionToDTO(s *entity.StocktakeSession) dto.StocktakeSessionDTO {
	out := dto.StocktakeSessionDTO{
		ID:              s.ID,
		Date:            s.Date,
		Status:          s.Status,
		Notes:           s.Notes,
		TotalDifference: s.TotalDifference,
		Items:           make([]dto.StocktakeItemDTO, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, itemToDTO(it, false))
	}
	return out
}
