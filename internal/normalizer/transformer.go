package normalizer

import (
	"strconv"
	"time"

	"formrelay/internal/models"
	"formrelay/pkg/hashid"
	"formrelay/pkg/utils"
)

// TimestampLayout is the ISO-8601 form used in payloads (UTC, milliseconds).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DefaultNameMaxRunes caps the respondent name.
const DefaultNameMaxRunes = 100

// Transformer builds canonical payloads.
type Transformer struct {
	nameMaxRunes int
}

// NewTransformer creates a transformer with the default name limit.
func NewTransformer() *Transformer {
	return NewTransformerWithLimit(DefaultNameMaxRunes)
}

// NewTransformerWithLimit creates a transformer truncating names to nameMaxRunes (0 = unlimited).
func NewTransformerWithLimit(nameMaxRunes int) *Transformer {
	return &Transformer{nameMaxRunes: nameMaxRunes}
}

// Build assembles the payload. Inputs are cleaned; now fixes both the
// timestamp and the response identifier.
func (t *Transformer) Build(email, phone, name string, now time.Time) models.Payload {
	email = Clean(email)
	phone = Clean(phone)
	name = utils.TruncateRunes(Clean(name), t.nameMaxRunes)

	return models.Payload{
		Email:      email,
		Phone:      phone,
		Name:       name,
		Timestamp:  now.UTC().Format(TimestampLayout),
		ResponseID: ResponseID(email, phone, now),
	}
}

// ResponseID derives the log correlation id from email, phone and the epoch milliseconds of now.
func ResponseID(email, phone string, now time.Time) string {
	return hashid.FromParts(email, phone, strconv.FormatInt(now.UnixMilli(), 10))
}
