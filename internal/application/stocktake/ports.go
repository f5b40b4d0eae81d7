package stocktake

import (
	"context"
	"io"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// CSVExporter escribe una sesión finalizada como CSV.
type CSVExporter interface {
	WriteStocktake(w io.Writer, session *entity.StocktakeSession) error
	FileName(session *entity.StocktakeSession) string
}

// ReportGenerator genera el informe PDF de una sesión finalizada.
type ReportGenerator interface {
	GenerateStocktakePDF(ctx context.Context, session *entity.StocktakeSession) ([]byte, error)
}

// ScanFeedback confirmación cosmética de un escaneo aceptado (tono y resaltado de fila).
type ScanFeedback interface {
	ScanMatched(sessionID, code, productID string)
}
