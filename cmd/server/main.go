package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"dmeditor/internal/config"
	"dmeditor/internal/domain/repositories"
	"dmeditor/internal/handler"
	"dmeditor/internal/handler/sse"
	"dmeditor/internal/middleware"
	"dmeditor/internal/repository/memory"
	"dmeditor/internal/repository/postgres"
	"dmeditor/internal/service/draft"
	"dmeditor/internal/service/imaging"
	"dmeditor/internal/service/markup"
	"dmeditor/internal/service/session"
	"dmeditor/internal/service/upload"
	"dmeditor/internal/service/widget"
	"dmeditor/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging, optionally teeing into a log file
	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer f.Close()
		logOut = io.MultiWriter(os.Stdout, f)
	}
	logger := config.NewLogger(cfg.Environment, logOut)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_driver", cfg.StorageDriver,
		"allowed_origins", cfg.AllowedOrigins,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Drafts: postgres when configured, memory otherwise
	var (
		draftRepo repositories.DraftRepository
		txManager repositories.TransactionManager
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}

		draftRepo = postgres.NewDraftRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		txManager = postgres.NewTransactionManager(pool, logger)
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	} else {
		draftRepo = memory.NewDraftRepository()
		txManager = repositories.NoopTransactionManager{}
		logger.Warn("DATABASE_URL not set, drafts are kept in memory")
	}

	// Upload storage
	var store storage.Storage
	switch cfg.StorageDriver {
	case "s3":
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			Endpoint:       cfg.S3Endpoint,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3ForcePathStyle,
			PublicBase:     cfg.UploadPublicBase,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to setup S3 storage: %v", err)
		}
		store = s3Store
	case "local":
		localStore, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadPublicBase, logger)
		if err != nil {
			log.Fatalf("Failed to setup local storage: %v", err)
		}
		store = localStore
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q (want local or s3)", cfg.StorageDriver)
	}

	// Widgets
	registry, err := widget.NewRegistry(cfg.ThemesFile)
	if err != nil {
		log.Fatalf("Failed to load widget themes: %v", err)
	}
	logger.Info("widget registry initialized", "override", cfg.ThemesFile)

	// Services
	pipelines := markup.NewPipelines(config.ColumnWidth)
	optimizer := imaging.NewOptimizer(cfg.MaxImageWidth, cfg.JPEGQuality, logger)
	uploadService := upload.NewService(store, logger)
	draftService := draft.NewDraftService(draftRepo, txManager, logger)
	widgetService := widget.NewService(registry, logger)

	manager := session.NewManager(session.Deps{
		Pipelines: pipelines,
		Guard:     session.NewLengthGuard(),
		Origins:   session.NewOriginPolicy(cfg.AllowedOrigins),
		Drafts:    draftService,
		Optimizer: optimizer,
		Uploads:   uploadService,
		Logger:    logger,
	})

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Health:  handler.NewHealthHandler(manager),
		Session: handler.NewSessionHandler(manager, draftService, sse.DefaultConfig(), logger),
		Upload:  handler.NewUploadHandler(uploadService, optimizer, logger),
		Widget:  handler.NewWidgetHandler(widgetService, pipelines, logger),
	})
	if cfg.StorageDriver == "local" {
		mux.Handle("GET /img_upload/", http.StripPrefix("/img_upload/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	// Middleware chain (applied in reverse order)
	var h http.Handler = mux
	h = middleware.Origin(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		manager.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
