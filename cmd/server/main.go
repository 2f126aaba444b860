package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"loandocs/internal/config"
	"loandocs/internal/handler"
	"loandocs/internal/ocr"
	"loandocs/internal/ocr/tesseract"
	"loandocs/internal/parser/openai"
	"loandocs/internal/port"
	"loandocs/internal/repository/postgres"
	"loandocs/internal/router"
	"loandocs/internal/service"
	localstorage "loandocs/internal/storage/local"
	s3storage "loandocs/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	extRepo := postgres.NewExtractionRepo(db)

	// Initialize storage
	var files port.FileStore
	switch cfg.Storage.Backend {
	case "s3":
		files, err = s3storage.NewS3Store(&cfg.Storage.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 store: %w", err)
		}
	case "local":
		files, err = localstorage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			return fmt.Errorf("failed to initialize local store: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// Initialize pipeline stages
	recovery := ocr.NewExtractor(ocr.Config{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Languages: cfg.OCR.Languages,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
		Timeout:   time.Duration(cfg.OCR.TimeoutSecs) * time.Second,
	}, func() (ocr.Engine, error) {
		return tesseract.New(cfg.OCR.Languages)
	})
	extractor := openai.NewExtractor(&cfg.Extractor)

	// Initialize services
	docSvc := service.NewDocumentService(docRepo, files, cfg.Storage.MaxFileSizeMB*1024*1024)
	extSvc := service.NewExtractionService(docRepo, extRepo, files, recovery, extractor)

	// Initialize handlers
	docH := handler.NewDocumentHandler(docSvc)
	extH := handler.NewExtractionHandler(extSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(docH, extH, healthH, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Queue worker picks up uploaded documents in the background
	worker := service.NewExtractionQueueWorker(docRepo, extSvc, service.ExtractionQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}
