// Package feedback confirma escaneos aceptados en el puesto de conteo.
package feedback

import "github.com/rs/zerolog"

// LogFeedback registra cada escaneo aceptado; el cliente reproduce el tono al leer el resultado.
type LogFeedback struct {
	log zerolog.Logger
}

// NewLogFeedback construye el feedback sobre el logger de la aplicación.
func NewLogFeedback(log zerolog.Logger) *LogFeedback {
	return &LogFeedback{log: log.With().Str("component", "scan_feedback").Logger()}
}

// ScanMatched emite el "beep" del escaneo.
func (f *LogFeedback) ScanMatched(sessionID, code, productID string) {
	f.log.Debug().
		Str("session_id", sessionID).
		Str("code", code).
		Str("product_id", productID).
		Msg("beep")
}
