// Package probe reads media metadata via ffprobe so the CLI can plan
// segments without a caller-supplied trim window.
package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"subforge/internal/subproc"
)

// DefaultBinary is the prober command name.
const DefaultBinary = "ffprobe"

// Prober wraps ffprobe invocations.
type Prober struct {
	binary string
	run    subproc.Runner
}

// Option configures the prober.
type Option func(*Prober)

// WithRunner overrides subprocess execution (for testing).
func WithRunner(run subproc.Runner) Option {
	return func(p *Prober) {
		if run != nil {
			p.run = run
		}
	}
}

// New constructs a prober.
func New(binary string, opts ...Option) *Prober {
	if binary == "" {
		binary = DefaultBinary
	}
	p := &Prober{binary: binary, run: subproc.Exec}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Duration returns the container duration of the source in seconds.
func (p *Prober) Duration(ctx context.Context, source string) (float64, error) {
	if strings.TrimSpace(source) == "" {
		return 0, fmt.Errorf("probe: source required")
	}
	out, err := p.run(ctx, subproc.Command{
		Name: p.binary,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			source,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("probe: duration: %w", err)
	}
	text := strings.TrimSpace(string(out))
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("probe: parse duration %q: %w", text, err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("probe: negative duration %f", seconds)
	}
	return seconds, nil
}
