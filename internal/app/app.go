package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/hr-admin/internal/config"
	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	"github.com/riskibarqy/hr-admin/internal/domain/role"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/audit"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/events/kafka"
	cacherepo "github.com/riskibarqy/hr-admin/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/session/memorystore"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/session/redisstore"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/storage/httpstore"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/storage/localdisk"
	"github.com/riskibarqy/hr-admin/internal/interfaces/httpapi"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

// App owns the HTTP server and every resource opened to serve it.
type App struct {
	Server  *http.Server
	logger  *logging.Logger
	closers []func(context.Context) error
}

// New builds the dependency graph described by cfg. Resources opened before
// a failure are released before returning.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (_ *App, err error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close(ctx)
		}
	}()

	var db *sqlx.DB
	if cfg.RepositoryBackend == config.BackendPostgres {
		if db, err = a.openDB(ctx, cfg); err != nil {
			return nil, err
		}
	}

	employees := a.employeeRepository(cfg, db)
	attendanceRepo := a.attendanceRepository(cfg, db)

	sessions, err := a.sessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storage, filesDir, err := a.assetStorage(cfg)
	if err != nil {
		return nil, err
	}

	notifier, err := a.uploadNotifier(cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := a.employeePublisher(cfg)
	if err != nil {
		return nil, err
	}

	menuTable := role.DefaultMenuTable()
	if cfg.MenuTablePath != "" {
		if menuTable, err = role.LoadMenuTable(cfg.MenuTablePath); err != nil {
			return nil, fmt.Errorf("load menu table: %w", err)
		}
	}

	classifier, err := attendance.NewClassifier(cfg.AttendancePolicy)
	if err != nil {
		return nil, fmt.Errorf("build attendance classifier: %w", err)
	}

	pipeline := usecase.NewUploadPipeline(
		storage,
		notifier,
		asset.Policy{
			MaxBytes:         cfg.UploadMaxBytes,
			AllowedMIMETypes: cfg.UploadAllowedMIMETypes,
		},
		cfg.UploadTimeout,
		nil,
		logger,
	)
	onboardingSvc := usecase.NewOnboardingService(
		sessions,
		onboarding.NewStepValidator(onboarding.Rules{
			Genders:  cfg.OnboardingGenders,
			JobTypes: cfg.OnboardingJobTypes,
		}),
		pipeline,
		employees,
		publisher,
		nil,
		cfg.OnboardingSessionTTL,
		logger,
	)
	attendanceSvc := usecase.NewAttendanceService(attendanceRepo, classifier, cfg.AttendanceWorkers, logger)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		anubis.Config{
			BaseURL:        cfg.AnubisBaseURL,
			IntrospectPath: cfg.AnubisIntrospectURL,
			AdminKey:       cfg.AnubisAdminKey,
			Timeout:        cfg.AnubisTimeout,
			CacheTTL:       cfg.AnubisCacheTTL,
			CircuitBreaker: cfg.AnubisCircuit,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		onboardingSvc,
		attendanceSvc,
		role.NewMenuResolver(menuTable),
		httpapi.HandlerOptions{
			UploadMaxBytes:     cfg.UploadMaxBytes,
			AttendanceLocation: cfg.AttendanceLocation,
		},
		logger,
	)
	router := httpapi.NewRouter(handler, anubisClient, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		FilesDir:           filesDir,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	logger.InfoContext(ctx, "app wired",
		"repository_backend", cfg.RepositoryBackend,
		"session_store", cfg.SessionStore,
		"storage_backend", cfg.StorageBackend,
		"kafka_enabled", cfg.KafkaEnabled,
		"audit_webhook_enabled", cfg.AuditWebhookEnabled,
	)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) employeeRepository(cfg config.Config, db *sqlx.DB) employee.Repository {
	var repo employee.Repository
	if db != nil {
		repo = postgres.NewEmployeeRepository(db)
	} else {
		repo = memory.NewEmployeeRepository(memory.SeedEmployees())
	}
	if !cfg.CacheEnabled {
		return repo
	}
	return cacherepo.NewEmployeeRepository(repo, cfg.CacheTTL)
}

func (a *App) attendanceRepository(cfg config.Config, db *sqlx.DB) attendance.Repository {
	if db != nil {
		return postgres.NewAttendanceRepository(db, cfg.AttendanceLocation)
	}
	return memory.NewAttendanceRepository(memory.SeedAttendance(cfg.AttendanceLocation))
}

func (a *App) sessionStore(ctx context.Context, cfg config.Config) (onboarding.SessionStore, error) {
	if cfg.SessionStore != config.BackendRedis {
		return memorystore.NewSessionStore(cfg.OnboardingSessionTTL), nil
	}

	rdb := redisstore.NewClient(redisstore.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	a.onClose(func(context.Context) error { return rdb.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return redisstore.NewSessionStore(rdb, cfg.OnboardingSessionTTL), nil
}

func (a *App) assetStorage(cfg config.Config) (asset.Storage, string, error) {
	if cfg.StorageBackend == config.BackendHTTP {
		client, err := httpstore.NewClient(
			&fasthttp.Client{
				Name:                "hr-admin",
				ReadTimeout:         cfg.StorageHTTPTimeout,
				WriteTimeout:        cfg.StorageHTTPTimeout,
				MaxIdleConnDuration: time.Minute,
			},
			httpstore.Config{
				BaseURL:        cfg.StorageHTTPBaseURL,
				Token:          cfg.StorageHTTPToken,
				Timeout:        cfg.StorageHTTPTimeout,
				CircuitBreaker: cfg.StorageCircuit,
			},
			a.logger,
		)
		if err != nil {
			return nil, "", fmt.Errorf("build http storage client: %w", err)
		}
		return client, "", nil
	}

	store, err := localdisk.New(cfg.StorageLocalDir, cfg.StoragePublicBaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("build local disk storage: %w", err)
	}
	return store, cfg.StorageLocalDir, nil
}

func (a *App) uploadNotifier(cfg config.Config) (*audit.UploadNotifier, error) {
	var publisher audit.Publisher
	if cfg.AuditWebhookEnabled {
		webhook, err := audit.NewWebhookPublisher(
			&http.Client{Timeout: cfg.AuditWebhookTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
			audit.WebhookConfig{
				URL:            cfg.AuditWebhookURL,
				Token:          cfg.AuditWebhookToken,
				Timeout:        cfg.AuditWebhookTimeout,
				CircuitBreaker: cfg.AuditWebhookCircuit,
			},
			a.logger,
		)
		if err != nil {
			return nil, fmt.Errorf("build audit webhook publisher: %w", err)
		}
		publisher = webhook
	}

	notifier := audit.NewUploadNotifier(publisher, cfg.AuditWebhookTimeout, a.logger)
	a.onClose(func(context.Context) error {
		notifier.Wait()
		return nil
	})
	return notifier, nil
}

func (a *App) employeePublisher(cfg config.Config) (employee.EventPublisher, error) {
	if !cfg.KafkaEnabled {
		return nil, nil
	}

	kafkaCfg := kafka.Config{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaEmployeeTopic,
		Source:   cfg.ServiceName,
		ClientID: cfg.KafkaClientID,
	}
	producer, err := kafka.NewSyncProducer(kafkaCfg)
	if err != nil {
		return nil, fmt.Errorf("build kafka producer: %w", err)
	}
	publisher := kafka.NewEmployeePublisher(producer, kafkaCfg, a.logger)
	a.onClose(func(context.Context) error { return publisher.Close() })
	return publisher, nil
}
