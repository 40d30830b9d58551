package main

import (
	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/attachment"
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/jobs"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/mail"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. Database
	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	// 2. Migrations
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 3. Redis (OTP and reset token store)
	rdb, err := storage.OpenRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("INFO: Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Complaint Desk Backend...")

	cfg := config.Load()
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Infrastructure
	db, rdb := setupDependencies(ctx, cfg)
	s := storage.NewStorageService(db, rdb)

	mailer, err := mail.New(cfg)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}
	disk, err := attachment.NewDisk(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to configure attachment disk: %v", err)
	}
	localizer, err := localization.Default()
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}
	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// 2. Domain services
	issuer := auth.NewTokenIssuer(s, cfg.JWTSecret, cfg.TokenTTL)
	sessions := auth.NewSessionService(s, issuer)
	resets := auth.NewPasswordResetService(s, s, mailer, issuer, cfg.OTPExpiry)
	complaints := complaint.NewService(s, disk)

	// 3. Background jobs
	scheduler := cron.New()
	pruner := jobs.NewTokenPruner(s)
	if _, err := pruner.Schedule(scheduler, cfg.TokenPruneSchedule); err != nil {
		log.Fatalf("Failed to schedule token pruner: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 4. Gin and routing
	r := gin.Default()
	r.MaxMultipartMemory = config.MultipartMemoryLimit
	h := handler.NewHandler(sessions, resets, complaints, localizer)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("INFO: Listening on %s (mail=%s, disk=%s)", server.Addr, cfg.MailDriver, disk.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown failed: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("WARNING: closing redis: %v", err)
	}
}
