package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/kiekky-web/internal/common/database"
)

func TestRedisTokenStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := database.NewRedisClientFromURL(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	store := NewRedisTokenStore(client)
	id := uuid.New().String()
	t.Cleanup(func() { store.Delete(ctx, id) })

	if err := store.Save(ctx, id, "tok", time.Minute); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if tok, err := store.Load(ctx, id); err != nil || tok != "tok" {
		t.Fatalf("Load() = (%q, %v)", tok, err)
	}
	if err := store.Touch(ctx, id, time.Hour); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if ttl := client.TTL(ctx, "webclient:session:"+id).Val(); ttl < 59*time.Minute {
		t.Errorf("TTL after touch = %v", ttl)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete error = %v", err)
	}
	if err := store.Touch(ctx, id, time.Minute); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch() after delete error = %v", err)
	}
}
