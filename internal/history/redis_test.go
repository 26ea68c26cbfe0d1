package history

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNewRedis_RequiresClient(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); err == nil {
		t.Error("expected error without client")
	}
}

func TestRedisHistory(t *testing.T) {
	// Skip test if Redis is not available
	client := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
		DB:   3,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	key := "formrelay:test:responses"
	defer client.Del(ctx, key)

	h, err := NewRedis(RedisConfig{Client: client, Key: key, Capacity: 2})
	if err != nil {
		t.Fatalf("Failed to create Redis history: %v", err)
	}
	defer h.Close()

	if _, err := h.Latest(ctx); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := h.Record(ctx, response(id)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := h.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}

	if got.ID != "c" || len(got.ItemResponses) != 1 || got.ItemResponses[0].Response != "c@x.com" {
		t.Errorf("Latest = %+v", got)
	}

	if n := client.LLen(ctx, key).Val(); n != 2 {
		t.Errorf("stored %d entries, want 2", n)
	}
}
