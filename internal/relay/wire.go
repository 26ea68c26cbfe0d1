package relay

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"formrelay/internal/config"
	"formrelay/internal/extractor"
	"formrelay/internal/history"
	"formrelay/internal/logger"
	"formrelay/internal/normalizer"
	"formrelay/internal/payload"
)

// NewHistory opens the response history selected by cfg.
func NewHistory(ctx context.Context, cfg config.HistoryConfig) (history.ResponseHistory, error) {
	if cfg.Backend != config.BackendRedis {
		return history.NewMemory(cfg.Capacity), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	return history.NewRedis(history.RedisConfig{
		Client:   client,
		Key:      cfg.Key,
		Capacity: cfg.Capacity,
	})
}

// NewDeliverer builds the delivery client from cfg.
func NewDeliverer(cfg *config.Config, log *logger.Logger) *payload.Deliverer {
	d := payload.NewDeliverer(cfg.Relay.Endpoint, cfg.Relay.Secret, cfg.Delivery.Timeout(), log)
	d.SetMaxAttempts(cfg.Delivery.MaxAttempts)
	d.SetBackoff(payload.LinearBackoff(cfg.Delivery.ServerErrorDelay(), cfg.Delivery.NetworkErrorStep()))

	return d
}

// NewProcessor builds the field processor from cfg.
func NewProcessor(cfg *config.Config) *normalizer.Processor {
	return normalizer.NewProcessorWithDeps(
		cfg.Candidates(),
		normalizer.NewValidatorWithBounds(cfg.Validation.PhoneMinDigits, cfg.Validation.PhoneMaxDigits),
		normalizer.NewTransformerWithLimit(cfg.Validation.NameMaxRunes),
		nil,
	)
}

// NewHandlerFromConfig wires a complete handler.
func NewHandlerFromConfig(cfg *config.Config, hist history.ResponseHistory, d Deliverer, log *logger.Logger) *Handler {
	return NewHandler(extractor.New(hist, log), NewProcessor(cfg), d, log)
}
