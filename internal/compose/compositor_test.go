package compose

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"subforge/internal/pipeline"
	"subforge/internal/subproc"
)

func TestBurnBuildsEncoderArgs(t *testing.T) {
	var captured subproc.Command
	var scriptPath string
	comp := New("ffmpeg", WithTempDir(t.TempDir()), WithRunner(func(_ context.Context, cmd subproc.Command) ([]byte, error) {
		captured = cmd
		for i, arg := range cmd.Args {
			if arg == "-vf" && i+1 < len(cmd.Args) {
				scriptPath = strings.TrimPrefix(cmd.Args[i+1], "subtitles=")
			}
		}
		return []byte("encoded-video"), nil
	}))

	out, err := comp.Burn(context.Background(), "https://example.com/video.mp4", "[Script Info]\n", Output{})
	if err != nil {
		t.Fatalf("Burn: %v", err)
	}
	if string(out) != "encoded-video" {
		t.Errorf("output = %q", out)
	}
	args := strings.Join(captured.Args, " ")
	for _, fragment := range []string{
		"-i https://example.com/video.mp4",
		"-c:v libx264",
		"-crf 18",
		"-c:a aac",
		"-movflags frag_keyframe+empty_moov",
		"-f mp4 pipe:1",
	} {
		if !strings.Contains(args, fragment) {
			t.Errorf("args %q missing %q", args, fragment)
		}
	}
	if scriptPath == "" {
		t.Fatal("no subtitles filter in args")
	}
}

func TestBurnStagesAndRemovesScript(t *testing.T) {
	dir := t.TempDir()
	var scriptPath string
	comp := New("", WithTempDir(dir), WithRunner(func(_ context.Context, cmd subproc.Command) ([]byte, error) {
		for i, arg := range cmd.Args {
			if arg == "-vf" && i+1 < len(cmd.Args) {
				scriptPath = strings.TrimPrefix(cmd.Args[i+1], "subtitles=")
			}
		}
		unescaped := strings.ReplaceAll(strings.ReplaceAll(scriptPath, `\:`, ":"), `\\`, `\`)
		data, err := os.ReadFile(unescaped)
		if err != nil {
			t.Errorf("script not readable during encode: %v", err)
		} else if string(data) != "[Script Info]\nScriptType: v4.00+\n" {
			t.Errorf("staged script content = %q", data)
		}
		scriptPath = unescaped
		return nil, &subproc.ExitError{Name: "ffmpeg", Code: 1, Stderr: "filter error"}
	}))

	_, err := comp.Burn(context.Background(), "in.mp4", "[Script Info]\nScriptType: v4.00+\n", Output{})
	if err == nil {
		t.Fatal("expected burn failure")
	}
	if _, statErr := os.Stat(scriptPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("script file %s still present after failure", scriptPath)
	}
}

func TestBurnMapsExitCode(t *testing.T) {
	comp := New("", WithTempDir(t.TempDir()), WithRunner(func(_ context.Context, _ subproc.Command) ([]byte, error) {
		return nil, &subproc.ExitError{Name: "ffmpeg", Code: 69, Stderr: "encode failed"}
	}))
	_, err := comp.Burn(context.Background(), "in.mp4", "[Script Info]", Output{})
	var compErr *pipeline.CompositionError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompositionError, got %v", err)
	}
	if compErr.ExitCode != 69 {
		t.Errorf("exit code = %d, want 69", compErr.ExitCode)
	}
	if !errors.Is(err, pipeline.ErrComposition) {
		t.Error("error not tagged as composition failure")
	}
}

func TestBurnValidation(t *testing.T) {
	comp := New("", WithTempDir(t.TempDir()))
	if _, err := comp.Burn(context.Background(), "", "[Script Info]", Output{}); !errors.Is(err, pipeline.ErrComposition) {
		t.Errorf("expected composition error for empty source, got %v", err)
	}
	if _, err := comp.Burn(context.Background(), "in.mp4", "  ", Output{}); !errors.Is(err, pipeline.ErrComposition) {
		t.Errorf("expected composition error for empty script, got %v", err)
	}
}

func TestBurnCustomOutput(t *testing.T) {
	var args string
	comp := New("", WithTempDir(t.TempDir()), WithRunner(func(_ context.Context, cmd subproc.Command) ([]byte, error) {
		args = strings.Join(cmd.Args, " ")
		return []byte("x"), nil
	}))
	_, err := comp.Burn(context.Background(), "in.mkv", "[Script Info]", Output{Format: "mkv", VideoCodec: "libx265", CRF: 22})
	if err != nil {
		t.Fatalf("Burn: %v", err)
	}
	if !strings.Contains(args, "-c:v libx265") || !strings.Contains(args, "-crf 22") || !strings.Contains(args, "-f matroska") {
		t.Errorf("custom output not honored: %q", args)
	}
	if strings.Contains(args, "-movflags") {
		t.Errorf("movflags should only apply to mp4 output: %q", args)
	}
}
