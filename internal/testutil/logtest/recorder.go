// Package logtest captures slog output for assertions in tests.
package logtest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder is a slog.Handler that keeps every record in memory. Loggers
// derived with With share the same record list.
type Recorder struct {
	mu      *sync.Mutex
	records *[]Record
	attrs   []slog.Attr
}

func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, records: &[]Record{}}
}

func (r *Recorder) Logger() *slog.Logger {
	return slog.New(r)
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool {
	return true
}

func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	attrs := make(map[string]any, len(r.attrs)+rec.NumAttrs())
	for _, a := range r.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.records = append(*r.records, Record{Level: rec.Level, Message: rec.Message, Attrs: attrs})
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(r.attrs)+len(attrs))
	merged = append(merged, r.attrs...)
	merged = append(merged, attrs...)
	return &Recorder{mu: r.mu, records: r.records, attrs: merged}
}

func (r *Recorder) WithGroup(string) slog.Handler {
	return r
}

// Records returns the records at or above min.
func (r *Recorder) Records(min slog.Level) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Record
	for _, rec := range *r.records {
		if rec.Level >= min {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns how many records were logged at exactly level.
func (r *Recorder) Count(level slog.Level) int {
	n := 0
	for _, rec := range r.Records(level) {
		if rec.Level == level {
			n++
		}
	}
	return n
}

func (r *Recorder) Has(level slog.Level, substr string) bool {
	for _, rec := range r.Records(level) {
		if rec.Level == level && strings.Contains(rec.Message, substr) {
			return true
		}
	}
	return false
}
