package transcribe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"subforge/internal/media/segment"
	"subforge/internal/pipeline"
	"subforge/internal/services/speech"
	"subforge/internal/subtitle"
)

type fakeExtractor struct {
	calls []segment.Segment
	fail  int // fail on this call index, -1 to never fail
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, seg segment.Segment) ([]byte, error) {
	index := len(f.calls)
	f.calls = append(f.calls, seg)
	if f.fail == index {
		return nil, &pipeline.EncodingError{ExitCode: 1, Stderr: "boom"}
	}
	return []byte(fmt.Sprintf("audio-%d", index)), nil
}

type fakeSpeech struct {
	calls int
	fail  int
	cues  func(call int) []subtitle.Cue
}

func (f *fakeSpeech) Transcribe(_ context.Context, req speech.Request) ([]subtitle.Cue, error) {
	call := f.calls
	f.calls++
	if f.fail == call {
		return nil, errors.New("service unavailable")
	}
	if len(req.Audio) == 0 {
		return nil, errors.New("no audio")
	}
	return f.cues(call), nil
}

func TestRunMergesWithOffsets(t *testing.T) {
	extractor := &fakeExtractor{fail: -1}
	speechSvc := &fakeSpeech{
		fail: -1,
		cues: func(call int) []subtitle.Cue {
			// Segment-local cues always start near zero.
			return []subtitle.Cue{
				{Range: subtitle.TimeRange{Start: 5.0, End: 7.5}, Text: fmt.Sprintf("seg %d first", call)},
				{Range: subtitle.TimeRange{Start: 8.0, End: 9.0}, Text: fmt.Sprintf("seg %d second", call)},
			}
		},
	}
	ids := 0
	orch := New(extractor, speechSvc,
		WithSegmentDuration(240),
		WithIDGenerator(func() string { ids++; return fmt.Sprintf("cue-%d", ids) }))

	cues, err := orch.Run(context.Background(), []byte("source"), subtitle.TimeRange{Start: 10, End: 500}, "en")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(extractor.calls) != 3 {
		t.Fatalf("expected 3 segment extractions, got %d", len(extractor.calls))
	}
	if len(cues) != 6 {
		t.Fatalf("expected 6 merged cues, got %d", len(cues))
	}
	// First segment offset 10: 5.0 -> 15.0.
	if math.Abs(cues[0].Range.Start-15.0) > 1e-9 || math.Abs(cues[0].Range.End-17.5) > 1e-9 {
		t.Errorf("cue 0 range = %+v", cues[0].Range)
	}
	// Second segment offset 250: 5.0 -> 255.0.
	if math.Abs(cues[2].Range.Start-255.0) > 1e-9 {
		t.Errorf("cue 2 start = %f, want 255", cues[2].Range.Start)
	}
	// Third segment offset 490.
	if math.Abs(cues[4].Range.Start-495.0) > 1e-9 {
		t.Errorf("cue 4 start = %f, want 495", cues[4].Range.Start)
	}
	for i, cue := range cues {
		if cue.ID == "" {
			t.Errorf("cue %d has empty id", i)
		}
	}
	if cues[0].ID == cues[1].ID {
		t.Error("cue ids are not unique")
	}
}

func TestRunFailsWholeRequestOnSegmentError(t *testing.T) {
	extractor := &fakeExtractor{fail: -1}
	speechSvc := &fakeSpeech{
		fail: 1,
		cues: func(int) []subtitle.Cue {
			return []subtitle.Cue{{Range: subtitle.TimeRange{Start: 0, End: 1}, Text: "x"}}
		},
	}
	orch := New(extractor, speechSvc, WithSegmentDuration(240))

	cues, err := orch.Run(context.Background(), []byte("source"), subtitle.TimeRange{Start: 0, End: 700}, "en")
	if cues != nil {
		t.Errorf("partial cues returned on failure: %d", len(cues))
	}
	var segErr *pipeline.SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("expected SegmentError, got %v", err)
	}
	if segErr.Index != 1 {
		t.Errorf("failing index = %d, want 1", segErr.Index)
	}
	if !errors.Is(err, pipeline.ErrSegment) {
		t.Error("error not tagged as segment failure")
	}
	// Third segment is never attempted.
	if speechSvc.calls != 2 {
		t.Errorf("speech calls = %d, want 2", speechSvc.calls)
	}
}

func TestRunExtractorFailureCarriesIndex(t *testing.T) {
	extractor := &fakeExtractor{fail: 0}
	speechSvc := &fakeSpeech{fail: -1, cues: func(int) []subtitle.Cue { return nil }}
	orch := New(extractor, speechSvc)

	_, err := orch.Run(context.Background(), []byte("source"), subtitle.TimeRange{Start: 0, End: 100}, "en")
	var segErr *pipeline.SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("expected SegmentError, got %v", err)
	}
	if segErr.Index != 0 {
		t.Errorf("failing index = %d, want 0", segErr.Index)
	}
	if !errors.Is(segErr.Cause(), pipeline.ErrEncoding) {
		t.Errorf("cause %v is not an encoding error", segErr.Cause())
	}
}

func TestRunEmptyWindowIsNoOp(t *testing.T) {
	extractor := &fakeExtractor{fail: -1}
	speechSvc := &fakeSpeech{fail: -1, cues: func(int) []subtitle.Cue { return nil }}
	orch := New(extractor, speechSvc)

	cues, err := orch.Run(context.Background(), []byte("source"), subtitle.TimeRange{Start: 9, End: 9}, "en")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(cues) != 0 {
		t.Errorf("expected no cues, got %d", len(cues))
	}
	if len(extractor.calls) != 0 {
		t.Errorf("extractor invoked for empty window")
	}
}
