// Package stocktake contiene el motor de sesiones de inventario físico y el
// antirrebote de escaneos de cámara.
package stocktake

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// Mode modo de conteo.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeBlind  Mode = "blind" // el contador no ve la cantidad del sistema
)

// ParseMode valida el modo; vacío equivale a normal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNormal, "":
		return ModeNormal, nil
	case ModeBlind:
		return ModeBlind, nil
	}
	return "", domain.ErrInvalidInput
}

// NormalizeCode normaliza un código escaneado o un SKU para comparación sin mayúsculas.
// Un Caser no se comparte entre goroutines; se crea uno por llamada.
func NormalizeCode(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Session sesión de conteo en curso (DRAFT). No es segura para uso concurrente:
// el llamador serializa las operaciones.
type Session struct {
	id         string
	mode       Mode
	startedAt  time.Time
	status     string
	notes      string
	items      []entity.StocktakeItem
	categories []string // categoría por ítem, para el filtro
	bySKU      map[string]int
	byID       map[string]int
	lastScanID string
}

// Start crea una sesión con un ítem por producto del catálogo.
// SystemQuantity siempre es la cantidad del producto; ActualQuantity es la misma en modo
// normal y 0 en modo ciego. Los índices de búsqueda por SKU e ID se construyen aquí una vez.
func Start(id string, mode Mode, products []*entity.Product, now time.Time) *Session {
	s := &Session{
		id:         id,
		mode:       mode,
		startedAt:  now,
		status:     entity.StocktakeStatusDraft,
		items:      make([]entity.StocktakeItem, 0, len(products)),
		categories: make([]string, 0, len(products)),
		bySKU:      make(map[string]int, len(products)),
		byID:       make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		actual := p.Quantity
		if mode == ModeBlind {
			actual = 0
		}
		idx := len(s.items)
		s.items = append(s.items, entity.StocktakeItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			SKU:            p.SKU,
			SystemQuantity: p.Quantity,
			ActualQuantity: actual,
			Difference:     actual - p.Quantity,
		})
		s.categories = append(s.categories, p.Category)
		if key := NormalizeCode(p.SKU); key != "" {
			if _, dup := s.bySKU[key]; !dup {
				s.bySKU[key] = idx
			}
		}
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = idx
		}
	}
	return s
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Mode() Mode           { return s.mode }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) Status() string       { return s.status }
func (s *Session) Notes() string        { return s.notes }

// LastScannedID producto del último escaneo aceptado (resaltado en la vista).
func (s *Session) LastScannedID() string { return s.lastScanID }

// Items copia de las líneas actuales.
func (s *Session) Items() []entity.StocktakeItem {
	return append([]entity.StocktakeItem(nil), s.items...)
}

// Item devuelve la línea de un producto.
func (s *Session) Item(productID string) (entity.StocktakeItem, bool) {
	idx, ok := s.byID[productID]
	if !ok {
		return entity.StocktakeItem{}, false
	}
	return s.items[idx], true
}

// Filter líneas cuyo nombre o SKU contienen term (sin mayúsculas) y cuya categoría coincide.
// category vacía o "all" no filtra por categoría.
func (s *Session) Filter(term, category string) []entity.StocktakeItem {
	term = NormalizeCode(term)
	fold := cases.Fold()
	out := make([]entity.StocktakeItem, 0, len(s.items))
	for i, it := range s.items {
		if term != "" && !strings.Contains(fold.String(it.ProductName), term) &&
			!strings.Contains(fold.String(it.SKU), term) {
			continue
		}
		if category != "" && category != "all" && s.categories[i] != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (s *Session) ensureDraft() error {
	if s.status != entity.StocktakeStatusDraft {
		return domain.ErrSessionCompleted
	}
	return nil
}

// Adjust fija la cantidad contada de un producto (mínimo 0) y recalcula la diferencia.
// Producto inexistente: sin cambios, devuelve false.
func (s *Session) Adjust(productID string, actual int) (entity.StocktakeItem, bool, error) {
	if err := s.ensureDraft(); err != nil {
		return entity.StocktakeItem{}, false, err
	}
	idx, ok := s.byID[productID]
	if !ok {
		return entity.StocktakeItem{}, false, nil
	}
	s.setActual(idx, actual)
	return s.items[idx], true, nil
}

func (s *Session) setActual(idx, actual int) {
	if actual < 0 {
		actual = 0
	}
	it := &s.items[idx]
	it.ActualQuantity = actual
	it.Difference = actual - it.SystemQuantity
}

// SetItemNote fija la nota de una línea.
func (s *Session) SetItemNote(productID, note string) (bool, error) {
	if err := s.ensureDraft(); err != nil {
		return false, err
	}
	idx, ok := s.byID[productID]
	if !ok {
		return false, nil
	}
	s.items[idx].Notes = note
	return true, nil
}

// SetNotes fija las notas generales de la sesión.
func (s *Session) SetNotes(notes string) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	s.notes = notes
	return nil
}

// Lookup busca la línea que corresponde a un código escaneado: primero por SKU normalizado,
// luego por ID de producto exacto.
func (s *Session) Lookup(code string) (int, bool) {
	if idx, ok := s.bySKU[NormalizeCode(code)]; ok {
		return idx, true
	}
	idx, ok := s.byID[strings.TrimSpace(code)]
	return idx, ok
}

// IncrementByScan suma 1 a la cantidad contada del producto que coincide con code.
// Sin coincidencia no hay cambio de estado.
func (s *Session) IncrementByScan(code string) (entity.StocktakeItem, bool, error) {
	if err := s.ensureDraft(); err != nil {
		return entity.StocktakeItem{}, false, err
	}
	idx, ok := s.Lookup(code)
	if !ok {
		return entity.StocktakeItem{}, false, nil
	}
	s.setActual(idx, s.items[idx].ActualQuantity+1)
	s.lastScanID = s.items[idx].ProductID
	return s.items[idx], true, nil
}

// TotalDifference Σ |difference|.
func (s *Session) TotalDifference() int {
	return TotalDifference(s.items)
}

// TotalDifference Σ |difference| de un conjunto de líneas.
func TotalDifference(items []entity.StocktakeItem) int {
	total := 0
	for _, it := range items {
		total += it.AbsDifference()
	}
	return total
}

// Finalize construye el registro COMPLETED de la sesión sin alterar el estado de trabajo.
// Con diferencias pendientes exige confirmed == true (ErrConfirmationRequired).
// El llamador persiste el registro y luego invoca MarkCompleted.
func (s *Session) Finalize(notes string, confirmed bool, now time.Time) (*entity.StocktakeSession, error) {
	if err := s.ensureDraft(); err != nil {
		return nil, err
	}
	total := s.TotalDifference()
	if total > 0 && !confirmed {
		return nil, domain.ErrConfirmationRequired
	}
	if notes == "" {
		notes = s.notes
	}
	return &entity.StocktakeSession{
		ID:              s.id,
		Date:            now,
		Items:           s.Items(),
		Status:          entity.StocktakeStatusCompleted,
		Notes:           notes,
		TotalDifference: total,
	}, nil
}

// MarkCompleted congela la sesión; toda mutación posterior devuelve ErrSessionCompleted.
func (s *Session) MarkCompleted() {
	s.status = entity.StocktakeStatusCompleted
}
