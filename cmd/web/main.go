// cmd/web/main.go
// Entry point for the photo-sharing web client
// Bootstraps config, sessions and the HTTP server

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

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/common/database"
	"github.com/imadgeboyega/kiekky-web/internal/config"
	"github.com/imadgeboyega/kiekky-web/internal/navigation"
	"github.com/imadgeboyega/kiekky-web/internal/session"
	"github.com/imadgeboyega/kiekky-web/internal/web"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	logger := log.Default()

	log.Println("========================================")
	log.Println("🚀 Starting Photogram web client")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Printf("✅ Configuration is valid (API at %s)", cfg.APIBaseURL)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Session store
	log.Println("\n📮 Step 3: Initializing session store...")
	var store session.TokenStore
	var redisClient *redis.Client
	switch cfg.SessionStore {
	case "redis":
		client, err := database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("❌ Failed to connect to Redis:", err)
		}
		redisClient = client
		store = session.NewRedisTokenStore(redisClient)
		log.Println("✅ Using Redis for sessions")
	default:
		store = session.NewMemoryTokenStore()
		log.Println("✅ Using in-memory sessions (lost on restart)")
	}

	// 4. API client and sessions
	log.Println("\n🔌 Step 4: Initializing API client...")
	client := api.NewClient(api.Config{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
	})

	sessions := session.NewManager(store, cfg.SessionTTL, func(cred api.Session) *navigation.Root {
		return navigation.New(client, cred, logger)
	}, logger)
	go sessions.Run(ctx, cfg.SessionCleanupInterval)
	log.Println("✅ API client and session manager ready")

	// 5. Routes
	log.Println("\n🛣️  Step 5: Setting up routes...")
	app, err := web.NewApp(cfg, client, sessions, logger)
	if err != nil {
		log.Fatal("❌ Failed to load templates:", err)
	}

	// 6. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      app.Routes(),
		ErrorLog:     logger,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout*3 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("✅ Server exited gracefully")
}
