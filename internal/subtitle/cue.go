// Package subtitle defines the cue and style value types shared by the
// transcription, translation, and rendering stages.
package subtitle

import (
	"fmt"

	"subforge/internal/timecode"
)

// TimeRange is a [start, end) window in float seconds.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns end minus start.
func (r TimeRange) Duration() float64 { return r.End - r.Start }

// Valid reports whether 0 <= start <= end.
func (r TimeRange) Valid() bool { return r.Start >= 0 && r.Start <= r.End }

// Shift offsets both endpoints by the given number of seconds.
func (r TimeRange) Shift(offset float64) TimeRange {
	return TimeRange{
		Start: timecode.Shift(r.Start, offset),
		End:   timecode.Shift(r.End, offset),
	}
}

// Cue is one timed subtitle entry. ID is an opaque stable identifier used
// for active-cue lookup during playback; it is not required to be numeric.
type Cue struct {
	ID    string    `json:"id"`
	Range TimeRange `json:"range"`
	Text  string    `json:"text"`
}

// Shift returns a copy of the cue with its range offset by the given seconds.
func (c Cue) Shift(offset float64) Cue {
	c.Range = c.Range.Shift(offset)
	return c
}

// ValidateOrder checks that cue starts are non-decreasing and adjacent cues
// do not overlap. Producers are not required to guarantee this by
// construction, but the renderer and editor must preserve it.
func ValidateOrder(cues []Cue) error {
	for i := 1; i < len(cues); i++ {
		prev, cur := cues[i-1], cues[i]
		if cur.Range.Start < prev.Range.Start {
			return fmt.Errorf("cue %d starts at %.3f before cue %d at %.3f", i, cur.Range.Start, i-1, prev.Range.Start)
		}
		if prev.Range.End > cur.Range.Start {
			return fmt.Errorf("cue %d (ends %.3f) overlaps cue %d (starts %.3f)", i-1, prev.Range.End, i, cur.Range.Start)
		}
	}
	return nil
}
