package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/account"
	"clarity-backend/internal/admin"
	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostics"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/packs"
	"clarity-backend/internal/payments"
	"clarity-backend/internal/queue"
	"clarity-backend/internal/services/health"
	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/metrics"
	"clarity-backend/internal/shared/server"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/storage/db"
	"clarity-backend/internal/shared/storage/object"
	localstore "clarity-backend/internal/shared/storage/object/local"
	s3store "clarity-backend/internal/shared/storage/object/s3"
	"clarity-backend/internal/shared/telemetry"
	"clarity-backend/internal/workerproc"
)

const defaultRegion = "us-east-1"

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	Queue              queue.Client
	ClientsService     *clients.Service
	IntakesService     *intakes.Service
	DiagnosticsService *diagnostics.Service
	PacksService       *packs.Service
	PaymentsService    *payments.Service
	AdminService       *admin.Service
	AccountService     *account.Service
	HealthService      *health.Service
	// Processor builds queued reports. Tests may swap it before handing the
	// app to a worker.
	Processor workerproc.Processor
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Health:            app.HealthService,
		DiagnosticHandler: diagnostics.NewHandler(app.DiagnosticsService),
		PackHandler:       packs.NewHandler(app.PacksService, app.ClientsService),
		PaymentHandler:    payments.NewHandler(app.PaymentsService, cfg.StripeWebhookSecret),
		AdminHandler:      admin.NewHandler(app.AdminService),
		AccountHandler:    account.NewHandler(app.AccountService),
		Limiter:           middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	profile := db.RuntimeProfile(db.ProfileServer)
	opts := db.OptionsFor(profile)
	var (
		sqlDB *sql.DB
		err   error
	)
	if profile == db.ProfileLambda {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{
				"reason": "database connect failed",
				"error":  err,
			})
			return nil, nil
		}
		return nil, err
	}

	metrics.RegisterDB(sqlDB)
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Config{
			Region:   regionOrDefault(cfg.AWSRegion),
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.ReportQueueURL == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.ReportQueueURL, regionOrDefault(cfg.AWSRegion))
}

func regionOrDefault(region string) string {
	if strings.TrimSpace(region) == "" {
		return defaultRegion
	}
	return region
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

type repos struct {
	clients   clients.Repo
	intakes   intakes.Repo
	results   diagnostics.Repo
	packs     packs.Repo
	payments  payments.Repo
	notes     admin.NotesRepo
	overrides admin.OverridesRepo
}

func buildRepos(sqlDB *sql.DB) repos {
	if sqlDB != nil {
		return repos{
			clients:   &clients.PGRepo{DB: sqlDB},
			intakes:   &intakes.PGRepo{DB: sqlDB},
			results:   &diagnostics.PGRepo{DB: sqlDB},
			packs:     &packs.PGRepo{DB: sqlDB},
			payments:  &payments.PGRepo{DB: sqlDB},
			notes:     &admin.PGNotesRepo{DB: sqlDB},
			overrides: &admin.PGOverridesRepo{DB: sqlDB},
		}
	}
	return repos{
		clients:   clients.NewMemoryRepo(),
		intakes:   intakes.NewMemoryRepo(),
		results:   diagnostics.NewMemoryRepo(),
		packs:     packs.NewMemoryRepo(),
		payments:  payments.NewMemoryRepo(),
		notes:     admin.NewMemoryNotesRepo(),
		overrides: admin.NewMemoryOverridesRepo(),
	}
}

func buildServices(app *App) error {
	r := buildRepos(app.DB)

	clientsSvc := clients.NewService(r.clients)
	intakesSvc := intakes.NewService(r.intakes)

	cache, err := diagnostics.NewPreviewCache(app.Config.PreviewCacheSize)
	if err != nil {
		return fmt.Errorf("preview cache: %w", err)
	}
	diagSvc := diagnostics.NewService(clientsSvc, intakesSvc, r.results)
	diagSvc.Cache = cache
	diagSvc.Archive = &diagnostics.Archive{Store: app.Store}
	diagSvc.Queue = app.Queue

	packsSvc := packs.NewService(r.packs, intakesSvc)
	packsSvc.Previewer = diagSvc

	paymentsSvc := payments.NewService(r.payments, clientsSvc)
	paymentsSvc.BalanceThresholdCents = app.Config.BalanceThresholdCents

	adminSvc := &admin.Service{
		Notes:       r.notes,
		Overrides:   r.overrides,
		Clients:     clientsSvc,
		Intakes:     intakesSvc,
		Payments:    paymentsSvc,
		Packs:       packsSvc,
		Diagnostics: diagSvc,
	}
	diagSvc.Curation = adminSvc

	healthSvc := health.NewService(nil)
	if app.DB != nil {
		healthSvc = health.NewService(app.DB)
	}

	app.ClientsService = clientsSvc
	app.IntakesService = intakesSvc
	app.DiagnosticsService = diagSvc
	app.PacksService = packsSvc
	app.PaymentsService = paymentsSvc
	app.AdminService = adminSvc
	app.AccountService = account.NewService(clientsSvc, paymentsSvc, packsSvc, adminSvc)
	app.HealthService = healthSvc
	app.Processor = diagSvc
	return nil
}
