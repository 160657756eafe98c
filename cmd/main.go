// job-service — job catalog and lifecycle backend.
//
// Serves the public job board API:
//   - filterable, paginated job listings scoped by category, subcategory
//     and location slugs
//   - job detail by slug with view counting
//
// and the admin lifecycle API:
//   - single, bulk and scheduled deactivation of jobs
//   - bulk import of scraped jobs
//
// A daily cron sweep deactivates jobs whose end date has passed and
// publishes EVENT_JOBS_DEACTIVATED to Redis.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"blankpoint/job-service/internal/catalog"
	"blankpoint/job-service/internal/config"
	"blankpoint/job-service/internal/db"
	"blankpoint/job-service/internal/httpapi"
	"blankpoint/job-service/internal/ingest"
	"blankpoint/job-service/internal/lifecycle"
	"blankpoint/job-service/internal/scheduler"
	"blankpoint/job-service/internal/search"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[job-service] No .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[job-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[job-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[job-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[job-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[job-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[job-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[job-service] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	searchSvc := search.NewService(pool)
	lifecycleSvc := lifecycle.NewService(pool, rdb)
	catalogSvc := catalog.NewService(pool)
	importer := ingest.NewImporter(pool)

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(lifecycleSvc, cfg.CleanupHour, cfg.SchedulerTZ, cfg.SchedulerEnabled)
	if err := sched.Start(); err != nil {
		log.Fatalf("[job-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	h := httpapi.NewHandler(searchSvc, lifecycleSvc, catalogSvc, importer, sched)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[job-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[job-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[job-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[job-service] Shutdown error: %v", err)
	}
	log.Println("[job-service] Stopped.")
}
