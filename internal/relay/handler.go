// Package relay runs the end-to-end flow for one form event: extract the
// answers, resolve and validate the contact fields, then deliver the payload.
package relay

import (
	"context"
	"errors"
	"fmt"

	"formrelay/internal/extractor"
	"formrelay/internal/logger"
	"formrelay/internal/models"
	"formrelay/internal/normalizer"
	"formrelay/internal/payload"
)

// Stage names where the flow stopped.
type Stage string

// Stages.
const (
	StageExtraction Stage = "extraction"
	StageValidation Stage = "validation"
	StageDelivery   Stage = "delivery"
	StageInternal   Stage = "internal"
	StageDone       Stage = "done"
)

// ErrInternal marks a recovered panic.
var ErrInternal = errors.New("internal error")

// Deliverer posts a payload and reports every attempt.
type Deliverer interface {
	Deliver(ctx context.Context, p models.Payload) payload.Result
}

// Report summarizes the handling of one event.
type Report struct {
	Err        error                 `json:"-"`
	Payload    *models.Payload       `json:"payload,omitempty"`
	Delivery   *payload.Result       `json:"delivery,omitempty"`
	Stage      Stage                 `json:"stage"`
	Strategy   extractor.Strategy    `json:"strategy"`
	Error      string                `json:"error,omitempty"`
	Resolution normalizer.Resolution `json:"resolution"`
	Delivered  bool                  `json:"delivered"`
}

// Handler wires extraction, processing and delivery.
type Handler struct {
	extractor *extractor.Extractor
	processor *normalizer.Processor
	deliverer Deliverer
	logger    *logger.Logger
}

// NewHandler creates a handler.
func NewHandler(ex *extractor.Extractor, proc *normalizer.Processor, d Deliverer, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}

	return &Handler{
		extractor: ex,
		processor: proc,
		deliverer: d,
		logger:    log,
	}
}

// HandleEvent runs the whole flow. Failures are logged and returned in the
// Report; nothing escapes, including panics.
func (h *Handler) HandleEvent(ctx context.Context, event *models.Event) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report.Stage = StageInternal
			report.Delivered = false
			report.fail(fmt.Errorf("%w: %v", ErrInternal, r))
			h.logger.Error("event handling panicked", "panic", r)
		}
	}()

	// 1. Extract
	fields, strategy := h.extractor.Extract(ctx, event)
	report.Strategy = strategy

	if fields.Empty() {
		report.Stage = StageExtraction
		report.fail(extractor.ErrNoSubmission)
		h.logger.Error("no submission data", "strategy", strategy)

		return report
	}

	// 2. Resolve, validate and build
	p, res, err := h.processor.Process(fields)
	report.Resolution = res

	h.logger.Debug("fields resolved",
		"email_key", res.Email.MatchedKey, "email_score", res.Email.Score,
		"phone_key", res.Phone.MatchedKey, "phone_score", res.Phone.Score,
		"name_key", res.Name.MatchedKey, "name_score", res.Name.Score,
	)

	if err != nil {
		report.Stage = StageValidation
		report.fail(err)
		h.logValidation(err, res)

		return report
	}

	report.Payload = &p

	// 3. Deliver
	result := h.deliverer.Deliver(ctx, p)
	report.Delivery = &result
	report.Stage = StageDelivery

	final := result.Final
	if final.Succeeded() {
		report.Stage = StageDone
		report.Delivered = true
		h.logger.Info("submission delivered",
			"response_id", p.ResponseID,
			"attempts", result.Attempts(),
			"status", final.StatusCode,
			"body", final.Body,
		)

		return report
	}

	report.fail(fmt.Errorf("delivery failed: %s", final))

	switch final.Kind {
	case payload.KindAuthFailure:
		h.logger.Error("delivery rejected: check the shared secret",
			"response_id", p.ResponseID, "status", final.StatusCode, "body", final.Body)
	case payload.KindClientError:
		h.logger.Error("delivery rejected by receiver",
			"response_id", p.ResponseID, "status", final.StatusCode, "body", final.Body)
	case payload.KindServerError:
		h.logger.Error("receiver kept failing",
			"response_id", p.ResponseID, "attempts", result.Attempts(), "status", final.StatusCode, "body", final.Body)
	default:
		h.logger.Error("receiver unreachable",
			"response_id", p.ResponseID, "attempts", result.Attempts(), "error", final.Err)
	}

	return report
}

func (h *Handler) logValidation(err error, res normalizer.Resolution) {
	var verr *normalizer.ValidationError
	if !errors.As(err, &verr) {
		h.logger.Error("submission rejected", "error", err)
		return
	}

	h.logger.Error("submission rejected",
		"field", verr.Field,
		"value", verr.Value,
		"reason", verr.Err,
		"available_keys", verr.AvailableKeys,
		"email_score", res.Email.Score,
		"phone_score", res.Phone.Score,
	)
}

func (r *Report) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}
