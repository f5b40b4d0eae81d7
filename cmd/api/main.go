package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/smartwms/internal/application/notify"
	"github.com/jhoicas/smartwms/internal/application/optimization"
	"github.com/jhoicas/smartwms/internal/application/session"
	"github.com/jhoicas/smartwms/internal/application/stocktake"
	"github.com/jhoicas/smartwms/internal/domain/repository"
	"github.com/jhoicas/smartwms/internal/infrastructure/backend"
	"github.com/jhoicas/smartwms/internal/infrastructure/feedback"
	"github.com/jhoicas/smartwms/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/smartwms/internal/infrastructure/pdf"
	"github.com/jhoicas/smartwms/internal/infrastructure/postgres"
	"github.com/jhoicas/smartwms/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/smartwms/internal/interfaces/http"
	"github.com/jhoicas/smartwms/pkg/config"
	"github.com/jhoicas/smartwms/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// stores repositorios según STORE_DRIVER.
type stores struct {
	products   repository.ProductRepository
	txs        repository.TransactionRepository
	movements  repository.MovementLogRepository
	stocktakes repository.StocktakeRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	sess := session.New(cfg.Session.File)
	if err := sess.Load(); err != nil {
		log.Fatal().Err(err).Msg("cargar sesión")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, sess, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("inicializar persistencia")
	}
	defer st.close()

	center := notify.NewCenter(cfg.Notify.TTL, log.Component("notify"))

	optimizationUC := optimization.NewStorageOptimizationUseCase(
		st.products, st.txs, st.movements, center, log.Component("optimization"),
		optimization.Options{RecomputeAfterMove: cfg.Optimization.RecomputeAfterMove},
	)
	stocktakeUC := stocktake.NewStocktakeUseCase(
		st.products, st.stocktakes, center,
		report.NewCSVExporter(),
		infrapdf.NewStocktakeReportGenerator(cfg.App.Warehouse),
		feedback.NewLogFeedback(log.Zerolog()),
		log.Component("stocktake"),
		stocktake.Options{DebounceWindow: cfg.Stocktake.DebounceWindow},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "SmartWMS API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Optimization:  optimizationUC,
		Stocktake:     stocktakeUC,
		Notifications: center,
		Session:       sess,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, sess *session.Context, log *logger.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		tx := postgres.NewTxRunner(pool)
		return &stores{
			products:   postgres.NewProductRepository(pool),
			txs:        postgres.NewTransactionRepository(pool),
			movements:  postgres.NewMovementLogRepository(pool),
			stocktakes: postgres.NewStocktakeRepository(pool, tx),
			close:      pool.Close,
		}, nil
	case config.StoreMemory:
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		return &stores{
			products:   memory.NewStore(),
			txs:        memory.NewTransactionStore(),
			movements:  memory.NewMovementStore(),
			stocktakes: memory.NewStocktakeStore(),
			close:      func() {},
		}, nil
	default:
		client := backend.NewClient(cfg.Backend.URL, sess, log.Component("backend"), backend.Options{
			Timeout:   cfg.Backend.Timeout,
			RateLimit: cfg.Backend.RateLimit,
			Burst:     cfg.Backend.Burst,
		})
		return &stores{
			products:   backend.NewProductRepository(client),
			txs:        backend.NewTransactionRepository(client),
			movements:  backend.NewMovementLogRepository(client),
			stocktakes: backend.NewStocktakeRepository(client),
			close:      func() {},
		}, nil
	}
}
