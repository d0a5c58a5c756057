// cmd/server is the application entry point. It wires together all
// layers and starts the HTTP server.
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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/minseo-kang/seminar-enrollment/internal/clock"
	"github.com/minseo-kang/seminar-enrollment/internal/config"
	"github.com/minseo-kang/seminar-enrollment/internal/database"
	"github.com/minseo-kang/seminar-enrollment/internal/handler"
	"github.com/minseo-kang/seminar-enrollment/internal/repository"
	"github.com/minseo-kang/seminar-enrollment/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("connected to PostgreSQL")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Wire up layers.
	db := repository.NewDB(pool)
	seminarRepo := repository.NewSeminarRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := service.NewSeminarService(seminarRepo, membershipRepo, profileRepo, db, clock.NewSystem())
	seminarHandler := handler.NewSeminarHandler(svc, userRepo)

	// Build the router.
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)

	r.Route("/seminars", func(r chi.Router) {
		r.Post("/", seminarHandler.CreateSeminar)
		r.Get("/", seminarHandler.ListSeminars)
		r.Get("/{id}", seminarHandler.GetSeminar)
		r.Delete("/{id}", seminarHandler.DeleteSeminar)
		r.Post("/{id}/user", seminarHandler.ParticipateSeminar)
		r.Delete("/{id}/user", seminarHandler.DropSeminar)
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in a background goroutine so we can listen for the shutdown signal.
	go func() {
		log.Printf("server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
