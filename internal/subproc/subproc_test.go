package subproc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecCapturesStdout(t *testing.T) {
	out, err := Exec(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "printf hello"},
	})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("stdout = %q, want hello", out)
	}
}

func TestExecPipesStdin(t *testing.T) {
	out, err := Exec(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "cat"},
		Stdin: strings.NewReader("payload"),
	})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if string(out) != "payload" {
		t.Errorf("stdout = %q, want payload", out)
	}
}

func TestExecNonZeroExit(t *testing.T) {
	_, err := Exec(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
	})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
	if !strings.Contains(exitErr.Stderr, "boom") {
		t.Errorf("stderr %q does not contain process output", exitErr.Stderr)
	}
}

func TestExecMissingName(t *testing.T) {
	if _, err := Exec(context.Background(), Command{}); err == nil {
		t.Fatal("expected error for empty command name")
	}
}

func TestScopeRemovesTempFiles(t *testing.T) {
	dir := t.TempDir()
	scope := &Scope{}
	path, err := scope.WriteTemp(dir, "script-*.ass", []byte("[Script Info]"))
	if err != nil {
		t.Fatalf("WriteTemp: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("temp file missing before close: %v", err)
	}
	if err := scope.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file still present after close")
	}
	// Second close is a no-op.
	if err := scope.Close(); err != nil {
		t.Errorf("repeat Close: %v", err)
	}
}

func TestScopeTracksExternalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "external.wav")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	scope := &Scope{}
	scope.Track(path)
	scope.Track("already-gone.tmp")
	if err := scope.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("tracked file still present after close")
	}
}
