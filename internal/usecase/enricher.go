package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
)

const TimestampField = "timestamp"

// timestampLayout renders an absolute UTC instant with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Enricher stamps a feed document with its capture instant.
type Enricher struct {
	now func() time.Time
}

// NewEnricher returns an Enricher reading the given clock; nil means time.Now.
func NewEnricher(now func() time.Time) *Enricher {
	if now == nil {
		now = time.Now
	}
	return &Enricher{now: now}
}

// Enrich parses body as a JSON object, sets its top-level timestamp field
// (replacing any existing one) and serializes it again. Other fields are
// carried through untouched.
func (e *Enricher) Enrich(body []byte) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.ErrEmptyBody
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	// a literal null decodes into a nil map
	if doc == nil {
		return nil, domain.ErrEmptyBody
	}

	doc[TimestampField] = json.RawMessage(`"` + FormatTimestamp(e.now()) + `"`)

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize enriched payload: %w", domain.ErrPublish, err)
	}
	return out, nil
}
