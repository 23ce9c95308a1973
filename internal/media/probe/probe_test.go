package probe

import (
	"context"
	"strings"
	"testing"

	"subforge/internal/subproc"
)

func TestDuration(t *testing.T) {
	var captured subproc.Command
	prober := New("ffprobe", WithRunner(func(_ context.Context, cmd subproc.Command) ([]byte, error) {
		captured = cmd
		return []byte("512.733000\n"), nil
	}))
	seconds, err := prober.Duration(context.Background(), "movie.mp4")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if seconds != 512.733 {
		t.Errorf("duration = %f", seconds)
	}
	if captured.Args[len(captured.Args)-1] != "movie.mp4" {
		t.Errorf("source not last arg: %v", captured.Args)
	}
	if !strings.Contains(strings.Join(captured.Args, " "), "format=duration") {
		t.Errorf("args missing duration query: %v", captured.Args)
	}
}

func TestDurationParseFailure(t *testing.T) {
	prober := New("", WithRunner(func(_ context.Context, _ subproc.Command) ([]byte, error) {
		return []byte("N/A"), nil
	}))
	if _, err := prober.Duration(context.Background(), "movie.mp4"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationRequiresSource(t *testing.T) {
	prober := New("")
	if _, err := prober.Duration(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty source")
	}
}
