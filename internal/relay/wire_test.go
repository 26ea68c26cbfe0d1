package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formrelay/internal/config"
	"formrelay/internal/history"
	"formrelay/internal/logger"
	"formrelay/internal/payload"
)

func TestNewHistory_Memory(t *testing.T) {
	h, err := NewHistory(context.Background(), config.Default().History)
	require.NoError(t, err)

	_, ok := h.(*history.Memory)
	assert.True(t, ok, "expected memory history, got %T", h)
}

func TestNewHistory_RedisUnreachable(t *testing.T) {
	cfg := config.Default().History
	cfg.Backend = config.BackendRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewHistory(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewHandlerFromConfig_SampleEvent(t *testing.T) {
	cfg := config.Default()
	cfg.Relay.Endpoint = "https://receiver.example.com"
	cfg.Relay.Secret = "secret"

	d := &fakeDeliverer{result: outcome(payload.KindSuccess, 200)}
	h := NewHandlerFromConfig(cfg, history.NewMemory(1), d, logger.Nop())

	report := h.HandleEvent(context.Background(), SampleEvent())

	require.True(t, report.Delivered, "report: %+v", report)
	require.Len(t, d.delivered, 1)
	assert.Equal(t, "test@example.com", d.delivered[0].Email)
	assert.Equal(t, "+237600000000", d.delivered[0].Phone)
	assert.Equal(t, "Test Utilisateur", d.delivered[0].Name)
}
