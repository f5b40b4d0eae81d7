package stocktake

import (
	"strings"
	"sync"
	"time"
)

// DefaultDebounceWindow intervalo mínimo entre escaneos aceptados.
const DefaultDebounceWindow = 1500 * time.Millisecond

// Debouncer descarta eventos que llegan antes de que pase la ventana desde el último aceptado.
// Los eventos descartados no se encolan.
type Debouncer struct {
	mu           sync.Mutex
	window       time.Duration
	lastAccepted time.Time
}

// NewDebouncer crea el antirrebote; window <= 0 usa DefaultDebounceWindow.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Allow indica si un evento en now se acepta; si se acepta, actualiza la marca de tiempo.
func (d *Debouncer) Allow(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.lastAccepted.IsZero() && now.Sub(d.lastAccepted) < d.window {
		return false
	}
	d.lastAccepted = now
	return true
}

// ScanOutcome resultado de un evento de escaneo.
type ScanOutcome int

const (
	ScanIgnored   ScanOutcome = iota // fallo de decodificación o texto vacío
	ScanDebounced                    // dentro de la ventana
	ScanUnmatched                    // código sin producto
	ScanMatched
)

func (o ScanOutcome) String() string {
	switch o {
	case ScanDebounced:
		return "debounced"
	case ScanUnmatched:
		return "unmatched"
	case ScanMatched:
		return "matched"
	default:
		return "ignored"
	}
}

// ScanEvent texto decodificado por la cámara. DecodeErr != nil indica un fotograma ilegible.
type ScanEvent struct {
	Text      string
	DecodeErr error
	At        time.Time
}

// Scanner adaptador entre el flujo continuo de la cámara y la sesión.
// Es un recurso con alcance: se abre al mostrar la vista de escaneo y se cierra siempre al salir.
type Scanner struct {
	mu       sync.Mutex
	session  *Session
	debounce *Debouncer
	onMatch  func(code string, productID string)
	closed   bool
}

// OpenScanner registra un único manejador de escaneo para la sesión.
// onMatch (opcional) recibe la confirmación cosmética: tono y resaltado de la fila.
func OpenScanner(session *Session, window time.Duration, onMatch func(code, productID string)) *Scanner {
	return &Scanner{session: session, debounce: NewDebouncer(window), onMatch: onMatch}
}

// Handle procesa un evento. Los fallos de decodificación se ignoran sin error.
func (sc *Scanner) Handle(ev ScanEvent) (ScanOutcome, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.closed {
		return ScanIgnored, nil
	}
	if ev.DecodeErr != nil || strings.TrimSpace(ev.Text) == "" {
		return ScanIgnored, nil
	}
	if !sc.debounce.Allow(ev.At) {
		return ScanDebounced, nil
	}
	item, ok, err := sc.session.IncrementByScan(ev.Text)
	if err != nil {
		return ScanIgnored, err
	}
	if !ok {
		return ScanUnmatched, nil
	}
	if sc.onMatch != nil {
		sc.onMatch(ev.Text, item.ProductID)
	}
	return ScanMatched, nil
}

// Close libera el manejador. Idempotente.
func (sc *Scanner) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.closed = true
	sc.onMatch = nil
}

// Closed indica si el escáner ya fue liberado.
func (sc *Scanner) Closed() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.closed
}
