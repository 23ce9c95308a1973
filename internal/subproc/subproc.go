// Package subproc runs external encoder processes with captured streams and
// scoped temporary files. Every invocation is fire-and-collect: a fresh
// process per call, reaped before return, with stderr retained for error
// reporting.
package subproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation. Stdin may be nil when the
// process takes all input from its arguments.
type Command struct {
	Name  string
	Args  []string
	Stdin io.Reader
}

// Runner executes a command and returns its captured standard output.
// Production code uses Exec; tests inject a fake.
type Runner func(ctx context.Context, cmd Command) ([]byte, error)

// ExitError reports a process that started but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.Code, msg)
	}
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

// Exec runs the command, piping Stdin in and collecting stdout in full.
// Stderr is buffered separately and attached to the returned ExitError on
// non-zero exit.
func Exec(ctx context.Context, cmd Command) ([]byte, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, errors.New("subproc: command name required")
	}
	proc := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec
	if cmd.Stdin != nil {
		proc.Stdin = cmd.Stdin
	}
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Name:   cmd.Name,
				Code:   exitErr.ExitCode(),
				Stderr: truncate(stderr.String()),
			}
		}
		return nil, fmt.Errorf("subproc: run %s: %w", cmd.Name, err)
	}
	return stdout.Bytes(), nil
}

// Scope tracks temporary files created for one subprocess invocation and
// removes them all when closed. Close is safe on every exit path and may be
// called more than once.
type Scope struct {
	paths []string
}

// CreateTemp creates a uniquely named file and registers it for removal.
func (s *Scope) CreateTemp(dir, pattern string) (*os.File, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("subproc: create temp: %w", err)
	}
	s.paths = append(s.paths, file.Name())
	return file, nil
}

// WriteTemp writes data to a fresh scoped temp file and returns its path.
func (s *Scope) WriteTemp(dir, pattern string, data []byte) (string, error) {
	file, err := s.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("subproc: write temp: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("subproc: close temp: %w", err)
	}
	return file.Name(), nil
}

// Track registers an externally created path for removal at Close.
func (s *Scope) Track(path string) {
	if strings.TrimSpace(path) != "" {
		s.paths = append(s.paths, path)
	}
}

// Close removes every tracked file. Missing files are not an error.
func (s *Scope) Close() error {
	var firstErr error
	for _, path := range s.paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			if firstErr == nil {
				firstErr = fmt.Errorf("subproc: remove %s: %w", path, err)
			}
		}
	}
	s.paths = nil
	return firstErr
}

const stderrLimit = 2048

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrLimit {
		return s[:stderrLimit] + "..."
	}
	return s
}
