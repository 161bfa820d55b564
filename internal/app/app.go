package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/karirkit/karirkit/internal/config"
	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/events"
	"github.com/karirkit/karirkit/internal/middleware"
	"github.com/karirkit/karirkit/internal/module/auth"
	"github.com/karirkit/karirkit/internal/module/blog"
	"github.com/karirkit/karirkit/internal/module/document"
	"github.com/karirkit/karirkit/internal/module/job"
	"github.com/karirkit/karirkit/internal/module/user"
	"github.com/karirkit/karirkit/internal/storage"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine    *gin.Engine
	db        *gorm.DB
	logger    *logger.Logger
	cfg       *config.Config
	publisher events.Publisher
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, database, blob storage, the event publisher, domain
// repositories, services, handlers, middleware, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	// 3. AutoMigrate outside release mode. Production schema is managed
	// with explicit migrations.
	if cfg.Server.Mode != gin.ReleaseMode {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Blog{},
			&domain.Job{},
			&domain.Document{},
		); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 4. Setup blob storage and the event publisher.
	store, err := setupStorage(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	publisher, err := setupPublisher(&cfg.Events, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup events: %w", err)
	}

	// 5. Manual dependency injection: repository → service → handler → module.
	tokenExpiry, err := time.ParseDuration(cfg.Auth.TokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse auth.token_expiry: %w", err)
	}
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, tokenExpiry)

	userRepo := user.NewUserRepository(db)
	modules := []Module{
		auth.NewModule(auth.NewHandler(auth.NewService(tokens, userRepo))),
		user.NewModule(user.NewUserHandler(user.NewUserService(userRepo))),
		blog.NewModule(blog.NewBlogHandler(blog.NewBlogService(blog.NewBlogRepository(db), publisher))),
		job.NewModule(job.NewJobHandler(job.NewJobService(job.NewJobRepository(db)))),
		document.NewModule(document.NewDocumentHandler(document.NewDocumentService(document.NewDocumentRepository(db), store))),
	}

	// 6. Create Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	// In release mode, when no allowlist is configured, default to deny
	// cross-origin requests.
	corsConfig := resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS.AllowOrigins)

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(corsConfig),
	)

	// 7. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:  modules,
		DB:       db,
		Verifier: tokens,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:    engine,
		db:        db,
		logger:    log,
		cfg:       cfg,
		publisher: publisher,
	}, nil
}

// Handler exposes the underlying HTTP handler, mainly for tests that mount
// the app in an httptest server.
func (a *App) Handler() http.Handler {
	return a.engine
}

// setupStorage builds the configured blob store.
func setupStorage(cfg *config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case "fs":
		return storage.NewFSStorage(cfg.FS.Dir)
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.S3.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3.Endpoint != "" {
				o.BaseEndpoint = &cfg.S3.Endpoint
				o.UsePathStyle = true
			}
		})
		return storage.NewS3Storage(client, cfg.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage.driver %q", cfg.Driver)
	}
}

// setupPublisher builds the configured event publisher.
func setupPublisher(cfg *config.EventsConfig, log *slog.Logger) (events.Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return events.NoopPublisher{}, nil
	case "rabbitmq":
		p, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		log.Info("rabbitmq publisher connected")
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events.driver %q", cfg.Driver)
	}
}

func resolveCORSConfig(mode string, configuredAllowOrigins []string) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(configuredAllowOrigins) > 0 {
		corsConfig.AllowOrigins = configuredAllowOrigins
		return corsConfig
	}

	if mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the
// database connection and event publisher.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", slog.Any("error", err))
		}
	}

	a.close()
	return runErr
}

// close releases app resources in reverse dependency order.
func (a *App) close() {
	if closer, ok := a.publisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error("publisher close error", slog.Any("error", err))
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.logger.Error("database close error", slog.Any("error", err))
			}
		}
	}

	if err := a.logger.Close(); err != nil {
		slog.Error("logger close error", slog.Any("error", err))
	}
}
