package payload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"formrelay/internal/logger"
	"formrelay/internal/models"
)

// Retry defaults.
const (
	DefaultMaxAttempts      = 3
	DefaultServerErrorDelay = 2 * time.Second
	DefaultNetworkErrorStep = 2 * time.Second
)

// BackoffFunc returns how long to wait after a retryable outcome.
type BackoffFunc func(Outcome) time.Duration

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Result is the final outcome of a delivery plus every attempt made.
type Result struct {
	Final     Outcome   `json:"final"`
	History   []Outcome `json:"history"`
	RequestID string    `json:"requestId"`
}

// Attempts returns how many attempts were made.
func (r Result) Attempts() int {
	return len(r.History)
}

// Deliverer posts payloads with classification and bounded retries.
type Deliverer struct {
	client      Client
	backoff     BackoffFunc
	sleep       SleepFunc
	logger      *logger.Logger
	maxAttempts int
}

// NewDeliverer creates a deliverer for endpoint with the default retry policy.
func NewDeliverer(endpoint, secret string, timeout time.Duration, log *logger.Logger) *Deliverer {
	return NewDelivererWithClient(NewHTTPClient(endpoint, secret, timeout, log), log)
}

// NewDelivererWithClient creates a deliverer with a custom client (useful for testing).
func NewDelivererWithClient(client Client, log *logger.Logger) *Deliverer {
	if log == nil {
		log = logger.Nop()
	}

	return &Deliverer{
		client:      client,
		backoff:     LinearBackoff(DefaultServerErrorDelay, DefaultNetworkErrorStep),
		sleep:       SleepContext,
		logger:      log,
		maxAttempts: DefaultMaxAttempts,
	}
}

// SetMaxAttempts sets the attempt bound; values below one are ignored.
func (d *Deliverer) SetMaxAttempts(n int) {
	if n >= 1 {
		d.maxAttempts = n
	}
}

// SetBackoff replaces the backoff policy.
func (d *Deliverer) SetBackoff(fn BackoffFunc) {
	if fn != nil {
		d.backoff = fn
	}
}

// SetSleep replaces the sleep primitive.
func (d *Deliverer) SetSleep(fn SleepFunc) {
	if fn != nil {
		d.sleep = fn
	}
}

// LinearBackoff waits serverDelay after a server error and attempt*networkStep
// after a network error.
func LinearBackoff(serverDelay, networkStep time.Duration) BackoffFunc {
	return func(o Outcome) time.Duration {
		switch o.Kind {
		case KindServerError:
			return serverDelay
		case KindNetworkError:
			return time.Duration(o.Attempt) * networkStep
		default:
			return 0
		}
	}
}

// SleepContext waits for d unless ctx ends first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Deliver posts p until a terminal outcome or the attempt bound is reached.
// HTTP error statuses are reported in the Result, never as Go errors.
func (d *Deliverer) Deliver(ctx context.Context, p models.Payload) Result {
	result := Result{RequestID: uuid.NewString()}

	body, err := json.Marshal(p)
	if err != nil {
		result.Final = Outcome{Kind: KindClientError, Attempt: 0, Err: err, Error: err.Error()}
		return result
	}

	headers := map[string]string{"X-Request-ID": result.RequestID}

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		outcome := d.attempt(ctx, attempt, body, headers)
		result.History = append(result.History, outcome)
		result.Final = outcome

		d.logger.Info("delivery attempt",
			"attempt", attempt,
			"max_attempts", d.maxAttempts,
			"kind", outcome.Kind,
			"status", outcome.StatusCode,
			"response_id", p.ResponseID,
		)

		if !outcome.Retryable() || attempt == d.maxAttempts {
			break
		}

		wait := d.backoff(outcome)
		d.logger.Warn("retrying delivery", "attempt", attempt, "wait", wait, "kind", outcome.Kind)

		if err := d.sleep(ctx, wait); err != nil {
			d.logger.Warn("delivery retry cancelled", "error", err)
			break
		}
	}

	return result
}

func (d *Deliverer) attempt(ctx context.Context, n int, body []byte, headers map[string]string) Outcome {
	resp, err := d.client.Do(ctx, http.MethodPost, ReceivePath, body, headers)
	if err != nil {
		// Only transport failures are worth another attempt.
		kind := KindClientError
		if errors.Is(err, ErrRequestFailed) {
			kind = KindNetworkError
		}

		return Outcome{
			Kind:    kind,
			Attempt: n,
			Err:     err,
			Error:   err.Error(),
		}
	}

	return Outcome{
		Kind:       Classify(resp.StatusCode),
		Attempt:    n,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
}

// StatusReport is the result of a health probe.
type StatusReport struct {
	Body       string `json:"body,omitempty"`
	StatusCode int    `json:"status"`
	Healthy    bool   `json:"healthy"`
}

// Probe checks the endpoint's status route. It is healthy iff it answers 200.
func (d *Deliverer) Probe(ctx context.Context) (StatusReport, error) {
	resp, err := d.client.Do(ctx, http.MethodGet, StatusPath, nil, nil)
	if err != nil {
		return StatusReport{}, fmt.Errorf("status probe failed: %w", err)
	}

	return StatusReport{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Healthy:    resp.StatusCode == http.StatusOK,
	}, nil
}
