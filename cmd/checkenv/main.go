// cmd/checkenv/main.go
// Checks that .env, the API and (when configured) Redis are reachable

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/imadgeboyega/kiekky-web/internal/common/database"
	"github.com/imadgeboyega/kiekky-web/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  No .env file (%v), using environment variables\n", err)
	} else {
		fmt.Println("✅ .env loaded successfully!")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}
	fmt.Println("✅ Configuration is valid")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Printf("Contacting API at %s...\n", cfg.APIBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.APIBaseURL, nil)
	if err != nil {
		log.Fatal("❌ Bad API URL: ", err)
	}
	resp, err := (&http.Client{Timeout: cfg.APITimeout}).Do(req)
	if err != nil {
		log.Fatal("❌ Can't reach API: ", err)
	}
	resp.Body.Close()
	fmt.Printf("✅ API answered with %s\n", resp.Status)

	if cfg.SessionStore != "redis" {
		fmt.Println("✅ Using in-memory sessions, nothing else to check")
		return
	}

	client, err := database.NewRedisClientFromURL(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	defer client.Close()

	keys, err := client.Keys(ctx, "webclient:session:*").Result()
	if err != nil {
		log.Fatal("❌ Failed to list sessions: ", err)
	}
	fmt.Printf("✅ Connected to Redis, %d stored sessions\n", len(keys))
}
