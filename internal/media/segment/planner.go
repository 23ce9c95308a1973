// Package segment divides a media trim window into bounded slices for
// per-segment transcription.
package segment

import "subforge/internal/subtitle"

// DefaultDuration is the segment length used when the caller does not
// override it. Remote transcription behaves best on bounded uploads.
const DefaultDuration = 240.0

// Segment is one slice of the source media timeline. Offset is relative to
// the start of the media, not the trim window.
type Segment struct {
	OffsetSeconds   float64
	DurationSeconds float64
}

// minTailSeconds is the shortest clamped tail segment worth emitting.
// Float accumulation across the offset loop can leave a residue many orders
// of magnitude below one sample; such a tail would reach the encoder as a
// zero-length extraction.
const minTailSeconds = 0.001

// Plan splits the trim window into contiguous segments of at most
// durationSeconds each. The final segment is clamped so no segment extends
// past window.End; a clamped tail shorter than one millisecond is treated
// as float residue and dropped. A window with End <= Start yields no
// segments; callers treat that as a no-op rather than an error.
func Plan(window subtitle.TimeRange, durationSeconds float64) []Segment {
	if durationSeconds <= 0 {
		durationSeconds = DefaultDuration
	}
	if window.End <= window.Start {
		return nil
	}
	var segments []Segment
	for offset := window.Start; offset < window.End; offset += durationSeconds {
		length := durationSeconds
		if offset+length > window.End {
			length = window.End - offset
			if length < minTailSeconds {
				break
			}
		}
		segments = append(segments, Segment{OffsetSeconds: offset, DurationSeconds: length})
	}
	return segments
}
