package translation

import (
	"context"
	"fmt"
	"testing"

	"subforge/internal/pipeline"
	"subforge/internal/subtitle"
)

type fakeService struct {
	calls     [][]string
	responses [][]string
	errAt     int // batch index that errors, -1 to never error
}

func (f *fakeService) TranslateBatch(_ context.Context, texts []string, _ string) ([]string, error) {
	index := len(f.calls)
	copied := make([]string, len(texts))
	copy(copied, texts)
	f.calls = append(f.calls, copied)
	if f.errAt == index {
		return nil, pipeline.Wrap(pipeline.ErrTranslationFormat, "translate", "decode", "bad payload", nil)
	}
	if index < len(f.responses) {
		return f.responses[index], nil
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "tr:" + text
	}
	return out, nil
}

func makeCues(n int) []subtitle.Cue {
	cues := make([]subtitle.Cue, n)
	for i := range cues {
		cues[i] = subtitle.Cue{
			ID:    fmt.Sprintf("cue-%d", i),
			Range: subtitle.TimeRange{Start: float64(i), End: float64(i) + 0.9},
			Text:  fmt.Sprintf("line %d", i),
		}
	}
	return cues
}

func TestTranslateSplitsBatchesInOrder(t *testing.T) {
	service := &fakeService{errAt: -1}
	batcher := New(service, WithBatchSize(40))

	cues := makeCues(95)
	out, err := batcher.Translate(context.Background(), cues, "en", "es")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(service.calls) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(service.calls))
	}
	if len(service.calls[0]) != 40 || len(service.calls[1]) != 40 || len(service.calls[2]) != 15 {
		t.Errorf("batch sizes = %d %d %d", len(service.calls[0]), len(service.calls[1]), len(service.calls[2]))
	}
	if len(out) != 95 {
		t.Fatalf("output cue count = %d, want 95", len(out))
	}
	for i, cue := range out {
		if cue.ID != cues[i].ID {
			t.Fatalf("cue %d id changed: %q -> %q", i, cues[i].ID, cue.ID)
		}
		if cue.Range != cues[i].Range {
			t.Fatalf("cue %d range changed", i)
		}
		if cue.Text != "tr:"+cues[i].Text {
			t.Errorf("cue %d text = %q", i, cue.Text)
		}
	}
}

func TestTranslateRepairsShortResponse(t *testing.T) {
	service := &fakeService{errAt: -1, responses: [][]string{{"uno", "dos"}}}
	batcher := New(service)

	cues := makeCues(3)
	out, err := batcher.Translate(context.Background(), cues, "en", "es")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("output cue count = %d, want 3", len(out))
	}
	if out[0].Text != "uno" || out[1].Text != "dos" {
		t.Errorf("translated head = %q %q", out[0].Text, out[1].Text)
	}
	if out[2].Text != cues[2].Text {
		t.Errorf("tail cue text = %q, want original %q", out[2].Text, cues[2].Text)
	}
}

func TestTranslateKeepsSourceForEmptyPositions(t *testing.T) {
	service := &fakeService{errAt: -1, responses: [][]string{{"uno", "  ", "tres"}}}
	batcher := New(service)

	cues := makeCues(3)
	out, err := batcher.Translate(context.Background(), cues, "en", "es")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out[1].Text != cues[1].Text {
		t.Errorf("blank translation should keep source text, got %q", out[1].Text)
	}
}

func TestTranslateFailsWholeOperation(t *testing.T) {
	service := &fakeService{errAt: 1}
	batcher := New(service, WithBatchSize(2))

	out, err := batcher.Translate(context.Background(), makeCues(5), "en", "es")
	if err == nil {
		t.Fatal("expected error from failing batch")
	}
	if out != nil {
		t.Errorf("partial output returned: %d cues", len(out))
	}
	// Later batches are never attempted.
	if len(service.calls) != 2 {
		t.Errorf("service calls = %d, want 2", len(service.calls))
	}
}

func TestTranslateSameLanguageNoOp(t *testing.T) {
	service := &fakeService{errAt: 0}
	batcher := New(service)

	cues := makeCues(4)
	out, err := batcher.Translate(context.Background(), cues, "en-US", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(service.calls) != 0 {
		t.Errorf("service invoked for same-language request")
	}
	for i := range cues {
		if out[i] != cues[i] {
			t.Errorf("cue %d changed in no-op path", i)
		}
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	batcher := New(&fakeService{errAt: -1})
	out, err := batcher.Translate(context.Background(), nil, "en", "es")
	if err != nil || out != nil {
		t.Fatalf("empty input should be a no-op, got %v %v", out, err)
	}
}
