// Package timecode converts between subtitle timestamp text and float
// seconds, and applies offset arithmetic for segment stitching.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"subforge/internal/pipeline"
)

// Precision selects the fractional resolution of formatted timestamps.
type Precision int

const (
	// Milliseconds formats three fractional digits (SRT style).
	Milliseconds Precision = 3
	// Centiseconds formats two fractional digits (ASS style).
	Centiseconds Precision = 2
)

// Separator options for the fractional part.
const (
	CommaSeparator = ","
	DotSeparator   = "."
)

// Parse converts an H:MM:SS,mmm style timestamp into seconds. Both comma and
// dot fractional separators are accepted, and the hour field may be one or
// more digits.
func Parse(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, pipeline.Wrap(pipeline.ErrParse, "timecode", "parse", "empty timestamp", nil)
	}
	normalized := strings.ReplaceAll(trimmed, DotSeparator, CommaSeparator)
	fields := strings.Split(normalized, CommaSeparator)
	if len(fields) > 2 {
		return 0, invalid(value)
	}
	hms := strings.Split(fields[0], ":")
	if len(hms) != 3 {
		return 0, invalid(value)
	}
	hours, errH := strconv.Atoi(strings.TrimSpace(hms[0]))
	minutes, errM := strconv.Atoi(strings.TrimSpace(hms[1]))
	seconds, errS := strconv.Atoi(strings.TrimSpace(hms[2]))
	if errH != nil || errM != nil || errS != nil {
		return 0, invalid(value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, invalid(value)
	}
	total := float64(hours*3600 + minutes*60 + seconds)
	if len(fields) == 2 {
		frac := strings.TrimSpace(fields[1])
		if frac == "" {
			return 0, invalid(value)
		}
		digits, err := strconv.Atoi(frac)
		if err != nil || digits < 0 {
			return 0, invalid(value)
		}
		total += float64(digits) / math.Pow10(len(frac))
	}
	return total, nil
}

// Format renders seconds as H:MM:SS followed by the fractional part with the
// requested separator and precision. Negative inputs clamp to zero. Hours
// roll over by integer division only; there is no 24-hour wrap.
func Format(seconds float64, separator string, precision Precision) string {
	if seconds < 0 {
		seconds = 0
	}
	if separator == "" {
		separator = CommaSeparator
	}
	digits := int(precision)
	if digits <= 0 {
		digits = int(Milliseconds)
	}
	scale := math.Pow10(digits)
	total := int64(math.Round(seconds * scale))
	wholeScale := int64(scale)
	frac := total % wholeScale
	whole := total / wholeScale
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	return fmt.Sprintf("%d:%02d:%02d%s%0*d", hours, minutes, secs, separator, digits, frac)
}

// Shift offsets a timestamp by the given number of seconds.
func Shift(seconds, offset float64) float64 {
	return seconds + offset
}

func invalid(value string) error {
	return pipeline.Wrap(pipeline.ErrParse, "timecode", "parse", fmt.Sprintf("invalid timestamp %q", value), nil)
}
