package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/infrastructure/auth"
	"github.com/vendorcat/backend/internal/infrastructure/config"
	"github.com/vendorcat/backend/internal/infrastructure/logger"
	"github.com/vendorcat/backend/internal/infrastructure/persistence"
	"github.com/vendorcat/backend/internal/infrastructure/storage"
	"github.com/vendorcat/backend/internal/interfaces/http/handler"
	"github.com/vendorcat/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting vendor catalog backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Source file archive
	var archive reconapp.FileArchive
	switch cfg.Storage.Provider {
	case "s3":
		s3Archive, err := storage.NewS3FileArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure S3 archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure archive bucket", zap.Error(err))
		}
		cancel()
		archive = s3Archive
	default:
		stubArchive, err := storage.NewStubFileArchive(cfg.Storage.StubDir)
		if err != nil {
			log.Fatal("Failed to configure stub archive", zap.Error(err))
		}
		log.Warn("Using local stub file archive", zap.String("dir", cfg.Storage.StubDir))
		archive = stubArchive
	}

	// Repositories
	jobRepo := persistence.NewGormImportJobRepository(db.DB)
	rowRepo := persistence.NewGormStagedRowRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	sharedProfileRepo := persistence.NewGormMappingProfileRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	offeringRepo := persistence.NewGormOfferingRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	// Private mapping profiles live on local disk, one file per owner
	localProfileRepo, err := persistence.NewLocalProfileStore(cfg.Pipeline.LocalProfileDir)
	if err != nil {
		log.Fatal("Failed to open local profile store", zap.Error(err))
	}

	auditRecorder := persistence.NewGormAuditRecorder(db.DB, log)

	// Application services
	caps := reconapp.Caps{
		MaxRowsPerJob:       cfg.Pipeline.MaxRowsPerJob,
		PreviewRows:         cfg.Pipeline.PreviewRows,
		MaxResultErrors:     cfg.Pipeline.MaxResultErrors,
		MaxProfilesPerOwner: cfg.Pipeline.MaxProfilesPerOwner,
	}

	lookup := persistence.NewCatalogLookup(vendorRepo, offeringRepo, contractRepo, projectRepo, invoiceRepo, paymentRepo)
	matcher := reconapp.NewMatcher(lookup)
	fieldCatalog := reconapp.NewFieldCatalog(persistence.NewGormSchemaIntrospector(db.DB))

	profileService := reconapp.NewProfileService(sharedProfileRepo, localProfileRepo, caps, log)
	importService := reconapp.NewImportService(jobRepo, rowRepo, approvalRepo, profileService,
		fieldCatalog, matcher, archive, auditRecorder, caps, log)
	approvalService := reconapp.NewApprovalService(approvalRepo, jobRepo, auditRecorder, log)
	reviewService := reconapp.NewReviewService(jobRepo, rowRepo, reviewRepo, auditRecorder, log)
	applyService := reconapp.NewApplyService(jobRepo, rowRepo, vendorRepo, offeringRepo,
		contractRepo, projectRepo, invoiceRepo, paymentRepo, auditRecorder, caps, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.Setup(engine, router.Config{
		JWTService:  jwtService,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Handlers: router.Handlers{
			System:    handler.NewSystemHandler(db),
			Imports:   handler.NewImportHandler(importService, applyService, log),
			Reviews:   handler.NewReviewHandler(reviewService),
			Approvals: handler.NewApprovalHandler(approvalService),
			Profiles:  handler.NewProfileHandler(profileService),
		},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
