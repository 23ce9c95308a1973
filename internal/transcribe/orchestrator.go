// Package transcribe drives per-segment audio extraction and remote
// speech-to-text, merging segment-local results into one globally timed cue
// sequence.
package transcribe

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"subforge/internal/logging"
	"subforge/internal/media/segment"
	"subforge/internal/pipeline"
	"subforge/internal/services/speech"
	"subforge/internal/subtitle"
)

// Extractor produces one segment's re-encoded audio payload.
type Extractor interface {
	Extract(ctx context.Context, source []byte, seg segment.Segment) ([]byte, error)
}

// SpeechService transcribes one segment's audio into segment-local cues.
type SpeechService interface {
	Transcribe(ctx context.Context, req speech.Request) ([]subtitle.Cue, error)
}

// Orchestrator runs the transcription state machine for one request.
type Orchestrator struct {
	extractor       Extractor
	speech          SpeechService
	segmentDuration float64
	logger          *slog.Logger
	newID           func() string
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithSegmentDuration overrides the default segment length in seconds.
func WithSegmentDuration(seconds float64) Option {
	return func(o *Orchestrator) {
		if seconds > 0 {
			o.segmentDuration = seconds
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger.With("component", "transcribe")
		}
	}
}

// WithIDGenerator overrides cue ID minting (for deterministic tests).
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// New constructs an orchestrator over the given collaborators.
func New(extractor Extractor, speechService SpeechService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor:       extractor,
		speech:          speechService,
		segmentDuration: segment.DefaultDuration,
		logger:          slog.New(slog.DiscardHandler),
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run transcribes the trim window of the source audio buffer. Segments are
// processed strictly in order; each segment's cues are shifted by the segment
// offset and appended in arrival order. Any segment failure discards all
// accumulated cues and reports the failing segment index — partial
// transcripts are never returned.
func (o *Orchestrator) Run(ctx context.Context, source []byte, window subtitle.TimeRange, language string) ([]subtitle.Cue, error) {
	segments := segment.Plan(window, o.segmentDuration)
	if len(segments) == 0 {
		o.logger.Debug("empty trim window, nothing to transcribe",
			logging.Float64("start", window.Start), logging.Float64("end", window.End))
		return nil, nil
	}

	merged := make([]subtitle.Cue, 0, len(segments)*8)
	for i, seg := range segments {
		o.logger.Info("processing segment",
			logging.Int(logging.FieldSegment, i),
			logging.Float64("offset", seg.OffsetSeconds),
			logging.Float64("duration", seg.DurationSeconds))

		payload, err := o.extractor.Extract(ctx, source, seg)
		if err != nil {
			return nil, &pipeline.SegmentError{Index: i, Err: err}
		}
		cues, err := o.speech.Transcribe(ctx, speech.Request{
			Audio:    payload,
			Format:   "wav",
			Language: language,
		})
		if err != nil {
			return nil, &pipeline.SegmentError{Index: i, Err: err}
		}
		for _, cue := range cues {
			shifted := cue.Shift(seg.OffsetSeconds)
			if shifted.ID == "" {
				shifted.ID = o.newID()
			}
			merged = append(merged, shifted)
		}
		o.logger.Debug("segment merged",
			logging.Int(logging.FieldSegment, i), logging.Int("cues", len(cues)))
	}

	o.logger.Info("transcription complete",
		logging.Int("segments", len(segments)), logging.Int("cues", len(merged)))
	return merged, nil
}
