package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartwms/internal/application/notify"
	"github.com/jhoicas/smartwms/internal/application/optimization"
	"github.com/jhoicas/smartwms/internal/application/session"
	"github.com/jhoicas/smartwms/internal/application/stocktake"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Optimization  *optimization.StorageOptimizationUseCase
	Stocktake     *stocktake.StocktakeUseCase
	Notifications *notify.Center
	Session       *session.Context
	JWTSecret     string
	Now           func() time.Time
}

// Router registra las rutas de la API. Todas exigen Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.Now))

	// Optimización de almacenamiento
	opt := api.Group("/optimization")
	optHandler := NewOptimizationHandler(deps.Optimization)
	opt.Get("/analysis", optHandler.Current)
	opt.Post("/analysis", optHandler.Analyze)
	opt.Post("/suggestions/:productId/apply", optHandler.ApplyMove)
	opt.Get("/movements", optHandler.Movements)

	// Inventario físico
	st := api.Group("/stocktakes")
	stHandler := NewStocktakeHandler(deps.Stocktake)
	st.Get("/", stHandler.List)
	st.Post("/", stHandler.Start)
	st.Get("/drafts", stHandler.Drafts)
	st.Get("/history/:id/export.csv", stHandler.ExportCSV)
	st.Get("/history/:id/report.pdf", stHandler.ReportPDF)
	st.Get("/:id", stHandler.Get)
	st.Delete("/:id", stHandler.Abandon)
	st.Put("/:id/items/:productId", stHandler.AdjustItem)
	st.Put("/:id/notes", stHandler.SetNotes)
	st.Post("/:id/scanner", stHandler.OpenScanner)
	st.Delete("/:id/scanner", stHandler.CloseScanner)
	st.Post("/:id/scans", stHandler.Scan)
	st.Post("/:id/finalize", stHandler.Finalize)

	// Avisos
	notifications := api.Group("/notifications")
	notifHandler := NewNotificationHandler(deps.Notifications)
	notifications.Get("/", notifHandler.List)
	notifications.Delete("/:id", notifHandler.Dismiss)

	// Sesión de la estación
	if deps.Session != nil {
		sess := api.Group("/session")
		sessHandler := NewSessionHandler(deps.Session)
		sess.Get("/", sessHandler.Get)
		sess.Post("/", sessHandler.SignIn)
		sess.Delete("/", sessHandler.SignOut)
		sess.Put("/sidebar", sessHandler.SetSidebar)
	}
}
