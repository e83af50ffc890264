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

	"nearby/config"
	"nearby/internal/database"
	"nearby/internal/middleware"
	"nearby/internal/repository"
	"nearby/internal/router"
	"nearby/internal/session"
	"nearby/pkg/cloudinary"
)

const sweepInterval = 5 * time.Minute

func main() {
	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var dir repository.Directory
	if cfg.Directory.DSN != "" {
		db, err := database.Open(ctx, &cfg.Directory)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		if cfg.Directory.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		dir = repository.NewSQLDirectory(db)
		log.Printf("[directory] using SQL directory")
	} else {
		dir = repository.NewDemoDirectory(time.Now())
		log.Printf("[directory] DIRECTORY_DSN not set, serving demo users")
	}

	photos, err := cloudinary.NewResolver(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}

	registry := session.NewRegistry(cfg.Location.FixTimeout)
	go registry.Run(ctx, sweepInterval, cfg.Session.Expiry)
	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	go limiter.Run(ctx, sweepInterval)

	engine := router.Setup(cfg, dir, photos, registry, limiter)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
