// Package compose burns a rendered subtitle script into video frames by
// piping the source through an external ffmpeg process.
package compose

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"subforge/internal/logging"
	"subforge/internal/pipeline"
	"subforge/internal/subproc"
)

// DefaultBinary is the video encoder command name.
const DefaultBinary = "ffmpeg"

// Output describes the encoded result container and codecs. Zero values
// fall back to a fragmented MP4 suitable for stream capture.
type Output struct {
	Format       string
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
}

func (o Output) withDefaults() Output {
	if o.Format == "" {
		o.Format = "mp4"
	}
	if o.VideoCodec == "" {
		o.VideoCodec = "libx264"
	}
	if o.Preset == "" {
		o.Preset = "veryfast"
	}
	if o.CRF <= 0 {
		o.CRF = 18
	}
	if o.AudioCodec == "" {
		o.AudioCodec = "aac"
	}
	if o.AudioBitrate == "" {
		o.AudioBitrate = "192k"
	}
	return o
}

// Compositor runs burn-in encodes.
type Compositor struct {
	binary  string
	tempDir string
	run     subproc.Runner
	logger  *slog.Logger
}

// Option configures the compositor.
type Option func(*Compositor)

// WithRunner overrides subprocess execution (for testing).
func WithRunner(run subproc.Runner) Option {
	return func(c *Compositor) {
		if run != nil {
			c.run = run
		}
	}
}

// WithTempDir sets the directory for the scratch script file.
func WithTempDir(dir string) Option {
	return func(c *Compositor) {
		c.tempDir = dir
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compositor) {
		if logger != nil {
			c.logger = logger.With("component", "compose")
		}
	}
}

// New constructs a compositor using the given encoder binary.
func New(binary string, opts ...Option) *Compositor {
	if binary == "" {
		binary = DefaultBinary
	}
	c := &Compositor{binary: binary, run: subproc.Exec, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Burn composites the subtitle script into the source video (a URL or local
// path) and returns the full encoded output stream. The encoder requires a
// filesystem path for the subtitle filter, so the script is staged to a
// scoped temp file that is removed after the process exits regardless of
// outcome. Uploading the result belongs to the caller.
func (c *Compositor) Burn(ctx context.Context, source, script string, output Output) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, pipeline.Wrap(pipeline.ErrComposition, "compose", "burn", "source required", nil)
	}
	if strings.TrimSpace(script) == "" {
		return nil, pipeline.Wrap(pipeline.ErrComposition, "compose", "burn", "empty subtitle script", nil)
	}
	output = output.withDefaults()

	scope := &subproc.Scope{}
	defer scope.Close()

	scriptPath, err := scope.WriteTemp(c.tempDir, "subforge-burn-*.ass", []byte(script))
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrComposition, "compose", "burn", "stage script", err)
	}

	c.logger.Info("starting burn-in encode",
		logging.String("source", source), logging.String("format", output.Format))
	encoded, err := c.run(ctx, subproc.Command{
		Name: c.binary,
		Args: burnArgs(source, scriptPath, output),
	})
	if err != nil {
		var exitErr *subproc.ExitError
		if errors.As(err, &exitErr) {
			return nil, &pipeline.CompositionError{ExitCode: exitErr.Code, Stderr: exitErr.Stderr}
		}
		return nil, pipeline.Wrap(pipeline.ErrComposition, "compose", "burn", "run encoder", err)
	}
	c.logger.Info("burn-in encode complete", logging.Int("bytes", len(encoded)))
	return encoded, nil
}

func burnArgs(source, scriptPath string, output Output) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vf", "subtitles=" + escapeFilterPath(scriptPath),
		"-c:v", output.VideoCodec,
		"-preset", output.Preset,
		"-crf", strconv.Itoa(output.CRF),
		"-c:a", output.AudioCodec,
		"-b:a", output.AudioBitrate,
	}
	if output.Format == "mp4" {
		// Plain MP4 cannot be written to a pipe; fragment it.
		args = append(args, "-movflags", "frag_keyframe+empty_moov")
	}
	return append(args, "-f", muxerName(output.Format), "pipe:1")
}

// muxerName maps the user-facing container extension to ffmpeg's muxer name.
func muxerName(format string) string {
	if format == "mkv" {
		return "matroska"
	}
	return format
}

// escapeFilterPath escapes characters the subtitle filter treats specially.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, `\`, `\\`)
	p = strings.ReplaceAll(p, ":", `\:`)
	return p
}
