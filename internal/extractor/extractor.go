// Package extractor recovers the answers of a form submission from an event.
package extractor

import (
	"context"
	"errors"

	"formrelay/internal/history"
	"formrelay/internal/logger"
	"formrelay/internal/models"
	"formrelay/internal/normalizer"
)

// Strategy names the source the answers were recovered from.
type Strategy string

// Strategies, in the order they are tried.
const (
	StrategyNamedValues     Strategy = "named_values"
	StrategyItemResponses   Strategy = "item_responses"
	StrategyResponseHistory Strategy = "response_history"
	StrategyRawEvent        Strategy = "raw_event"
	StrategyNone            Strategy = "none"
)

// ErrNoSubmission is returned by callers when every strategy came back empty.
var ErrNoSubmission = errors.New("no submission data found in event")

// Extractor tries each strategy until one yields a non-empty normalized mapping.
type Extractor struct {
	history history.ResponseHistory
	logger  *logger.Logger
}

// New creates an extractor. A nil history disables the history strategy.
func New(h history.ResponseHistory, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}

	return &Extractor{
		history: h,
		logger:  log,
	}
}

type step struct {
	strategy Strategy
	fetch    func(ctx context.Context, event *models.Event) *models.RawSubmission
}

func (e *Extractor) steps() []step {
	return []step{
		{StrategyNamedValues, func(_ context.Context, ev *models.Event) *models.RawSubmission {
			return ev.NamedValues
		}},
		{StrategyItemResponses, func(_ context.Context, ev *models.Event) *models.RawSubmission {
			return ev.Response.Flatten()
		}},
		{StrategyResponseHistory, e.fromHistory},
		{StrategyRawEvent, func(_ context.Context, ev *models.Event) *models.RawSubmission {
			return scalarEntries(ev.Raw)
		}},
	}
}

// Extract returns the first non-empty normalized mapping and the strategy that produced it.
// When nothing is found it returns empty Fields and StrategyNone.
func (e *Extractor) Extract(ctx context.Context, event *models.Event) (*models.Fields, Strategy) {
	if event == nil {
		event = &models.Event{}
	}

	for _, s := range e.steps() {
		fields := normalizer.Normalize(s.fetch(ctx, event))
		if fields.Empty() {
			e.logger.Debug("extraction strategy empty", "strategy", s.strategy)
			continue
		}

		e.logger.Info("submission extracted", "strategy", s.strategy, "fields", fields.Len())

		return fields, s.strategy
	}

	e.logger.Warn("no submission data found", "strategies", len(e.steps()))

	return models.NewFields(), StrategyNone
}

// fromHistory consults the stored response only for events that carry no
// usable top-level entries of their own.
func (e *Extractor) fromHistory(ctx context.Context, ev *models.Event) *models.RawSubmission {
	if e.history == nil {
		return nil
	}

	if !normalizer.Normalize(scalarEntries(ev.Raw)).Empty() {
		return nil
	}

	resp, err := e.history.Latest(ctx)
	if err != nil {
		if !errors.Is(err, history.ErrEmpty) {
			e.logger.Error("response history lookup failed", "error", err)
		}

		return nil
	}

	return resp.Flatten()
}

// scalarEntries keeps the entries whose value is a scalar or a list.
func scalarEntries(raw *models.RawSubmission) *models.RawSubmission {
	out := models.NewRawSubmission()
	if raw == nil {
		return out
	}

	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.(type) {
		case map[string]any, *models.RawSubmission:
			continue
		default:
			out.Set(pair.Key, pair.Value)
		}
	}

	return out
}
