package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpattn/defectwatch/internal/analysis"
	"github.com/rpattn/defectwatch/internal/config"
	"github.com/rpattn/defectwatch/internal/db"
	"github.com/rpattn/defectwatch/internal/export"
	"github.com/rpattn/defectwatch/internal/ingestion"
	"github.com/rpattn/defectwatch/internal/middleware"
	"github.com/rpattn/defectwatch/internal/report"
	"github.com/rpattn/defectwatch/internal/repository"
	"github.com/rpattn/defectwatch/internal/requestid"

	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, cfg.Server.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	defectRepo := repository.NewDefectRepository(conn.Pool)
	lotRepo := repository.NewLotRepository(conn.Pool)
	inspectionRepo := repository.NewInspectionRepository(conn.Pool)
	importLogRepo := repository.NewImportLogRepository(conn.Pool)

	// Create services
	analysisService := analysis.NewService(inspectionRepo, analysis.WithSkipInvalid())
	ingestionService := ingestion.NewService(defectRepo, lotRepo, inspectionRepo, importLogRepo)
	exportService := export.NewService(analysisService)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/defects", report.NewHTTPHandler(analysisService))
	mux.Handle("/api/defects/", report.NewHTTPHandler(analysisService))
	mux.Handle("/api/import", ingestion.NewHTTPHandler(ingestionService))
	mux.Handle("/api/export", export.NewHTTPHandler(exportService))

	handler := corsHandler.Handler(requestid.Middleware(middleware.LoggingMiddleware(mux)))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting defectwatch server on %s", cfg.Server.Addr)
		log.Printf("Defect list available at http://localhost%s/api/defects", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
