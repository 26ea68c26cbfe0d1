package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"formrelay/internal/models"
)

func response(id string) *models.FormResponse {
	return &models.FormResponse{
		ID: id,
		ItemResponses: []models.ItemResponse{
			{Title: "Email", Response: id + "@x.com"},
		},
	}
}

func TestMemory_Empty(t *testing.T) {
	m := NewMemory(0)

	if _, err := m.Latest(context.Background()); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestMemory_LatestAndCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	for _, id := range []string{"a", "b", "c"} {
		if err := m.Record(ctx, response(id)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}

	got, err := m.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}

	if got.ID != "c" {
		t.Errorf("Latest ID = %q, want c", got.ID)
	}
}

func TestMemory_RecordNil(t *testing.T) {
	m := NewMemory(1)

	if err := m.Record(context.Background(), nil); err != nil {
		t.Fatalf("Record(nil) failed: %v", err)
	}

	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = m.Record(ctx, response(fmt.Sprint(n)))
			_, _ = m.Latest(ctx)
		}(i)
	}

	wg.Wait()

	if m.Len() != 10 {
		t.Errorf("Len = %d, want 10", m.Len())
	}
}
