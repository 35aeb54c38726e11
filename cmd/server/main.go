package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/skyops/airaudit/internal/config"
	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/export"
	"github.com/skyops/airaudit/internal/fleet"
	"github.com/skyops/airaudit/internal/importer"
	"github.com/skyops/airaudit/internal/items"
	"github.com/skyops/airaudit/internal/middleware"
	"github.com/skyops/airaudit/internal/repository"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

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
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	aircraftRepo := repository.NewAircraftRepository(conn.Pool)
	batchRepo := repository.NewImportBatchRepository(conn.Pool)
	itemRepo := repository.NewMaintenanceItemRepository(conn.Pool)
	quarantineRepo := repository.NewQuarantineRepository(conn.Pool)
	errorRepo := repository.NewImportErrorRepository(conn.Pool)
	ledgerRepo := repository.NewLedgerRepository(conn.Pool)

	txManager := db.NewTxManager(conn.Pool)

	// Create services
	importService := importer.NewService(txManager, aircraftRepo, batchRepo, itemRepo, quarantineRepo, errorRepo)
	itemService := items.NewService(txManager, batchRepo, itemRepo, ledgerRepo)
	fleetService := fleet.NewService(txManager, aircraftRepo, ledgerRepo)
	exportService := export.NewService(aircraftRepo, itemRepo)

	// Create HTTP handlers
	importHandler := importer.NewHTTPHandler(importService, batchRepo, errorRepo, quarantineRepo, ledgerRepo)
	itemHandler := items.NewHTTPHandler(itemService, itemRepo)
	fleetHandler := fleet.NewHTTPHandler(fleetService, ledgerRepo)
	exportHandler := export.NewHTTPHandler(exportService)

	router := chi.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.Route("/api", func(r chi.Router) {
		r.Route("/aircraft", func(r chi.Router) {
			r.Post("/", fleetHandler.Create)
			r.Get("/", fleetHandler.List)
			r.Route("/{aircraftID}", func(r chi.Router) {
				r.Get("/", fleetHandler.Get)
				r.Post("/archive", fleetHandler.Archive)
				r.Post("/restore", fleetHandler.Restore)
				r.Post("/imports", importHandler.Import)
				r.Get("/quarantine", importHandler.ListQuarantine)
				r.Post("/items", itemHandler.Create)
				r.Get("/items", itemHandler.List)
				r.Get("/items/export", exportHandler.Download)
			})
		})
		r.Route("/imports/{batchID}", func(r chi.Router) {
			r.Get("/", importHandler.GetBatch)
			r.Get("/errors", importHandler.ListBatchErrors)
		})
		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Get("/", itemHandler.Get)
			r.Patch("/", itemHandler.Update)
		})
		r.Get("/ledger", fleetHandler.ListLedger)
	})

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting maintenance import server on %s", cfg.ServerAddr)

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
