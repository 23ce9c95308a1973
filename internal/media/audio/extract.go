// Package audio slices and re-encodes source audio for transcription
// uploads by driving an external ffmpeg process per segment.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"subforge/internal/media/segment"
	"subforge/internal/pipeline"
	"subforge/internal/subproc"
)

// Target encoding for transcription uploads: mono 16kHz WAV.
const (
	DefaultBinary = "ffmpeg"
	sampleRate    = "16000"
	channels      = "1"
	codec         = "pcm_s16le"
	container     = "wav"
)

// Extractor produces per-segment audio payloads.
type Extractor struct {
	binary  string
	tempDir string
	run     subproc.Runner
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner overrides subprocess execution (for testing).
func WithRunner(run subproc.Runner) Option {
	return func(e *Extractor) {
		if run != nil {
			e.run = run
		}
	}
}

// WithTempDir sets the directory for scratch input files.
func WithTempDir(dir string) Option {
	return func(e *Extractor) {
		e.tempDir = dir
	}
}

// NewExtractor constructs an extractor using the given ffmpeg binary.
func NewExtractor(binary string, opts ...Option) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}
	e := &Extractor{binary: binary, run: subproc.Exec}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract re-encodes one segment of the source audio buffer and returns the
// segment's byte payload. ffmpeg needs seekable input for accurate offset
// seeking, so the buffer is written to a scoped temp file that is removed on
// every exit path.
func (e *Extractor) Extract(ctx context.Context, source []byte, seg segment.Segment) ([]byte, error) {
	if len(source) == 0 {
		return nil, pipeline.Wrap(pipeline.ErrEncoding, "audio", "extract", "empty source buffer", nil)
	}
	scope := &subproc.Scope{}
	defer scope.Close()

	input, err := scope.WriteTemp(e.tempDir, "subforge-audio-*.src", source)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrEncoding, "audio", "extract", "stage input", err)
	}
	return e.ExtractFile(ctx, input, seg)
}

// ExtractFile is the file-backed variant of Extract for callers that already
// hold the source on disk.
func (e *Extractor) ExtractFile(ctx context.Context, sourcePath string, seg segment.Segment) ([]byte, error) {
	if seg.DurationSeconds <= 0 {
		return nil, pipeline.Wrap(pipeline.ErrEncoding, "audio", "extract", fmt.Sprintf("invalid segment duration %f", seg.DurationSeconds), nil)
	}
	out, err := e.run(ctx, subproc.Command{
		Name: e.binary,
		Args: extractArgs(sourcePath, seg),
	})
	if err != nil {
		var exitErr *subproc.ExitError
		if errors.As(err, &exitErr) {
			return nil, &pipeline.EncodingError{ExitCode: exitErr.Code, Stderr: exitErr.Stderr}
		}
		return nil, pipeline.Wrap(pipeline.ErrEncoding, "audio", "extract", "run encoder", err)
	}
	return out, nil
}

func extractArgs(sourcePath string, seg segment.Segment) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(seg.OffsetSeconds),
		"-t", formatSeconds(seg.DurationSeconds),
		"-i", sourcePath,
		"-vn",
		"-sn",
		"-dn",
		"-ac", channels,
		"-ar", sampleRate,
		"-c:a", codec,
		"-f", container,
		"pipe:1",
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
