// sar-server serves the search planner over HTTP and websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unklstewy/sar-scope/internal/api"
	"github.com/unklstewy/sar-scope/internal/auth"
	"github.com/unklstewy/sar-scope/internal/sources"
	"github.com/unklstewy/sar-scope/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	port := flag.String("port", "", "HTTP server port (default from config)")
	aircraftSource := flag.String("source", sources.SourceLive, "Aircraft lookup source: live or db")
	flag.Parse()

	log.Println("🚀 Starting SAR Scope server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	estimator, err := sources.Estimator(cfg)
	if err != nil {
		log.Fatalf("Invalid search configuration: %v", err)
	}

	opts := api.Options{
		Estimator:       estimator,
		Weather:         sources.Weather(cfg),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		StreamBatchSize: cfg.Server.StreamBatchSize,
		MaxRadiusKm:     cfg.Server.MaxRadiusKm,
	}

	if cfg.Auth.Enabled {
		opts.Auth = auth.NewService(auth.Config{
			JWTSecret:     cfg.Auth.JWTSecret,
			TokenDuration: time.Duration(cfg.Auth.TokenHours) * time.Hour,
			Accounts: []auth.Account{{
				Username:     cfg.Auth.Username,
				PasswordHash: cfg.Auth.PasswordHash,
				Role:         auth.RolePlanner,
			}},
		})
		log.Printf("🔐 Authentication enabled for %s", cfg.Auth.Username)
	} else {
		log.Println("⚠️  Authentication disabled")
	}

	aircraft, err := sources.Aircraft(context.Background(), cfg, *aircraftSource)
	if err != nil {
		log.Printf("Warning: aircraft lookups unavailable: %v", err)
	} else {
		opts.Aircraft = aircraft
		defer aircraft.Close()
	}

	publisher, err := sources.Publisher(context.Background(), cfg)
	if err != nil {
		log.Printf("Warning: plan publishing unavailable: %v", err)
	} else if publisher != nil {
		opts.Publisher = publisher
		defer publisher.Close()
		log.Printf("📤 Publishing plans on %s", publisher.Subject())
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.New(opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("📡 Server listening on http://%s", httpServer.Addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}
