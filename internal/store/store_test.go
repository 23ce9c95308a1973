package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"subforge/internal/pipeline"
	"subforge/internal/subtitle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "subforge.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCues() []subtitle.Cue {
	return []subtitle.Cue{
		{ID: "c1", Range: subtitle.TimeRange{Start: 0, End: 2}, Text: "hello"},
		{ID: "c2", Range: subtitle.TimeRange{Start: 2, End: 4}, Text: "world"},
	}
}

func TestTranscriptRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exists, err := s.HasTranscript(ctx, "media-1")
	if err != nil || exists {
		t.Fatalf("HasTranscript before save = %v, %v", exists, err)
	}
	if _, _, err := s.Transcript(ctx, "media-1"); !errors.Is(err, pipeline.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}

	if err := s.SaveTranscript(ctx, "media-1", "en", testCues()); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}
	exists, err = s.HasTranscript(ctx, "media-1")
	if err != nil || !exists {
		t.Fatalf("HasTranscript after save = %v, %v", exists, err)
	}
	cues, lang, err := s.Transcript(ctx, "media-1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if lang != "en" || len(cues) != 2 || cues[1].Text != "world" {
		t.Errorf("loaded transcript = %q %+v", lang, cues)
	}

	// Replacing is an upsert.
	if err := s.SaveTranscript(ctx, "media-1", "es", testCues()[:1]); err != nil {
		t.Fatalf("SaveTranscript replace: %v", err)
	}
	cues, lang, err = s.Transcript(ctx, "media-1")
	if err != nil || lang != "es" || len(cues) != 1 {
		t.Errorf("replaced transcript = %q %d cues, err %v", lang, len(cues), err)
	}
}

func TestDebitAndRecordTranslation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetCredits(ctx, "acct", 10); err != nil {
		t.Fatalf("SetCredits: %v", err)
	}
	if err := s.DebitAndRecordTranslation(ctx, "acct", "media-1", "es", testCues(), 4); err != nil {
		t.Fatalf("DebitAndRecordTranslation: %v", err)
	}
	balance, err := s.Credits(ctx, "acct")
	if err != nil || balance != 6 {
		t.Fatalf("balance = %d, err %v", balance, err)
	}
	cues, err := s.Translation(ctx, "media-1", "es")
	if err != nil || len(cues) != 2 {
		t.Fatalf("Translation: %d cues, err %v", len(cues), err)
	}
}

func TestDebitInsufficientCreditLeavesNoRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetCredits(ctx, "acct", 2); err != nil {
		t.Fatalf("SetCredits: %v", err)
	}
	err := s.DebitAndRecordTranslation(ctx, "acct", "media-1", "es", testCues(), 5)
	if !errors.Is(err, pipeline.ErrInsufficientCredit) {
		t.Fatalf("expected insufficient credit, got %v", err)
	}
	// All-or-nothing: the balance is untouched and no translation exists.
	balance, _ := s.Credits(ctx, "acct")
	if balance != 2 {
		t.Errorf("balance = %d, want 2", balance)
	}
	if _, err := s.Translation(ctx, "media-1", "es"); !errors.Is(err, pipeline.ErrNotFound) {
		t.Errorf("translation recorded despite failed debit: %v", err)
	}
}

func TestDebitUnknownAccount(t *testing.T) {
	s := openTestStore(t)
	err := s.DebitAndRecordTranslation(context.Background(), "ghost", "media-1", "es", testCues(), 1)
	if !errors.Is(err, pipeline.ErrInsufficientCredit) {
		t.Fatalf("expected insufficient credit for unknown account, got %v", err)
	}
}

func TestStyleDefaultsAndPersistence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	style, err := s.Style(ctx, "acct")
	if err != nil {
		t.Fatalf("Style: %v", err)
	}
	if style != subtitle.DefaultStyle() {
		t.Errorf("missing profile should yield defaults, got %+v", style)
	}

	custom := subtitle.DefaultStyle()
	custom.FontSize = 32
	custom.BorderStyle = subtitle.BorderOpaqueBox
	if err := s.SaveStyle(ctx, "acct", custom); err != nil {
		t.Fatalf("SaveStyle: %v", err)
	}
	loaded, err := s.Style(ctx, "acct")
	if err != nil {
		t.Fatalf("Style after save: %v", err)
	}
	if loaded != custom {
		t.Errorf("loaded style %+v != saved %+v", loaded, custom)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx, "media-1", KindTranscribe)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.Status != StatusPending {
		t.Errorf("new job status = %q", job.Status)
	}
	if err := s.UpdateJobStatus(ctx, job.ID, StatusRunning, nil); err != nil {
		t.Fatalf("UpdateJobStatus running: %v", err)
	}
	if err := s.UpdateJobStatus(ctx, job.ID, StatusFailed, errors.New("segment 2: boom")); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	jobs, err := s.ListJobs(ctx, 10)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}
	if jobs[0].Status != StatusFailed || jobs[0].Error != "segment 2: boom" {
		t.Errorf("job = %+v", jobs[0])
	}

	if err := s.UpdateJobStatus(ctx, "missing-id", StatusCompleted, nil); !errors.Is(err, pipeline.ErrNotFound) {
		t.Errorf("expected not-found for unknown job, got %v", err)
	}
}

func TestRecordComposition(t *testing.T) {
	s := openTestStore(t)
	id, err := s.RecordComposition(context.Background(), "media-1", "/out/burned.mp4", "mp4")
	if err != nil {
		t.Fatalf("RecordComposition: %v", err)
	}
	if id == "" {
		t.Error("empty composition id")
	}
}
