// Package translation splits a cue sequence into bounded batches, drives the
// remote translation service, and enforces the one-to-one alignment
// invariant between source and translated cues.
package translation

import (
	"context"
	"log/slog"
	"strings"

	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/subtitle"
)

// BatchSize is the maximum number of cues sent in one remote call.
const BatchSize = 40

// Service is the remote translation collaborator. The returned array may be
// shorter than the input; the batcher repairs alignment.
type Service interface {
	TranslateBatch(ctx context.Context, texts []string, targetLanguage string) ([]string, error)
}

// Batcher runs batch translation over a cue sequence.
type Batcher struct {
	service   Service
	batchSize int
	logger    *slog.Logger
}

// Option configures the batcher.
type Option func(*Batcher)

// WithBatchSize overrides the default batch size.
func WithBatchSize(size int) Option {
	return func(b *Batcher) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Batcher) {
		if logger != nil {
			b.logger = logger.With("component", "translation")
		}
	}
}

// New constructs a batcher over the given service.
func New(service Service, opts ...Option) *Batcher {
	b := &Batcher{
		service:   service,
		batchSize: BatchSize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Translate produces a cue sequence in the target language. Ordering, IDs,
// and timing are preserved exactly; only cue text changes. Batches run
// strictly one at a time. A short remote array is repaired per batch by
// keeping the original source text for the missing trailing positions; any
// batch-level error fails the whole operation so partially translated
// sequences are never returned. Equal source and target languages
// short-circuit to a copy of the input.
func (b *Batcher) Translate(ctx context.Context, cues []subtitle.Cue, sourceLanguage, targetLanguage string) ([]subtitle.Cue, error) {
	if len(cues) == 0 {
		return nil, nil
	}
	if language.Same(sourceLanguage, targetLanguage) {
		b.logger.Debug("source and target language match, skipping translation",
			logging.String(logging.FieldLanguage, targetLanguage))
		out := make([]subtitle.Cue, len(cues))
		copy(out, cues)
		return out, nil
	}

	out := make([]subtitle.Cue, 0, len(cues))
	batches := 0
	for start := 0; start < len(cues); start += b.batchSize {
		end := start + b.batchSize
		if end > len(cues) {
			end = len(cues)
		}
		batch := cues[start:end]
		batches++

		texts := make([]string, len(batch))
		for i, cue := range batch {
			texts[i] = cue.Text
		}
		translated, err := b.service.TranslateBatch(ctx, texts, targetLanguage)
		if err != nil {
			return nil, err
		}
		if len(translated) < len(batch) {
			b.logger.Warn("translation response shorter than batch, keeping source text for the tail",
				logging.Int("batch", batches-1),
				logging.Int("expected", len(batch)),
				logging.Int("received", len(translated)))
		}
		for i, cue := range batch {
			text := ""
			if i < len(translated) {
				text = strings.TrimSpace(translated[i])
			}
			if text == "" {
				text = cue.Text
			}
			cue.Text = text
			out = append(out, cue)
		}
	}

	b.logger.Info("translation complete",
		logging.Int("cues", len(out)),
		logging.Int("batches", batches),
		logging.String(logging.FieldLanguage, targetLanguage))
	return out, nil
}
