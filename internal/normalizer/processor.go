package normalizer

import (
	"time"

	"formrelay/internal/matcher"
	"formrelay/internal/models"
)

// Candidates holds the ordered label variants of each logical field, most preferred first.
type Candidates struct {
	Email []string
	Phone []string
	Name  []string
}

// Resolution is the outcome of matching every logical field.
type Resolution struct {
	Email matcher.Result `json:"email"`
	Phone matcher.Result `json:"phone"`
	Name  matcher.Result `json:"name"`
}

// Processor resolves, validates and builds the payload for one submission.
type Processor struct {
	candidates  Candidates
	validator   *Validator
	transformer *Transformer
	now         func() time.Time
}

// NewProcessor creates a processor with default validator and transformer.
func NewProcessor(candidates Candidates) *Processor {
	return NewProcessorWithDeps(candidates, NewValidator(), NewTransformer(), time.Now)
}

// NewProcessorWithDeps creates a processor with injected collaborators.
func NewProcessorWithDeps(candidates Candidates, v *Validator, t *Transformer, now func() time.Time) *Processor {
	if now == nil {
		now = time.Now
	}

	return &Processor{
		candidates:  candidates,
		validator:   v,
		transformer: t,
		now:         now,
	}
}

// Resolve matches the three logical fields against fields.
func (p *Processor) Resolve(fields *models.Fields) Resolution {
	return Resolution{
		Email: matcher.Match(fields, p.candidates.Email),
		Phone: matcher.Match(fields, p.candidates.Phone),
		Name:  matcher.Match(fields, p.candidates.Name),
	}
}

// Process turns normalized fields into a payload. The Resolution is returned
// even on failure so callers can log the scores.
func (p *Processor) Process(fields *models.Fields) (models.Payload, Resolution, error) {
	if fields.Empty() {
		return models.Payload{}, Resolution{}, ErrNoData
	}

	res := p.Resolve(fields)

	// 1. Validate the resolved contact values
	if err := p.validator.Validate(res.Email.Value, res.Phone.Value); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			verr.AvailableKeys = fields.Keys()
		}

		return models.Payload{}, res, err
	}

	// 2. Build the canonical payload
	payload := p.transformer.Build(res.Email.Value, CleanPhone(res.Phone.Value), res.Name.Value, p.now())

	return payload, res, nil
}
