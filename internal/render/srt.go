package render

import (
	"fmt"
	"strconv"
	"strings"

	"subforge/internal/pipeline"
	"subforge/internal/subtitle"
	"subforge/internal/timecode"
)

// SRT renders the cue sequence as a numbered caption file with
// comma-decimal millisecond timestamps. Cue order and count are preserved
// exactly.
func SRT(cues []subtitle.Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n",
			timecode.Format(cue.Range.Start, timecode.CommaSeparator, timecode.Milliseconds),
			timecode.Format(cue.Range.End, timecode.CommaSeparator, timecode.Milliseconds))
		b.WriteString(strings.TrimSpace(cue.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// Transcript renders the cue texts as a plain transcript with blank-line
// separation, dropping all timing information.
func Transcript(cues []subtitle.Cue) string {
	parts := make([]string, 0, len(cues))
	for _, cue := range cues {
		if text := strings.TrimSpace(cue.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ParseSRT reads a numbered caption file back into a cue sequence so
// previously exported files can feed translation or burn-in. Cue IDs are
// taken from the block numbers.
func ParseSRT(content string) ([]subtitle.Cue, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(normalized), "\n\n")
	var cues []subtitle.Cue
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
			continue
		}
		if len(lines) < 2 {
			return nil, pipeline.Wrap(pipeline.ErrParse, "render", "parse srt", fmt.Sprintf("malformed block %q", block), nil)
		}
		id := strings.TrimSpace(lines[0])
		timing := lines[1]
		if _, err := strconv.Atoi(id); err != nil {
			// Some producers omit the index line.
			id = strconv.Itoa(len(cues) + 1)
			timing = lines[0]
			lines = append([]string{""}, lines...)
		}
		parts := strings.Split(timing, "-->")
		if len(parts) != 2 {
			return nil, pipeline.Wrap(pipeline.ErrParse, "render", "parse srt", fmt.Sprintf("missing timing arrow in %q", timing), nil)
		}
		start, err := timecode.Parse(parts[0])
		if err != nil {
			return nil, err
		}
		end, err := timecode.Parse(parts[1])
		if err != nil {
			return nil, err
		}
		text := ""
		if len(lines) > 2 {
			text = strings.Join(lines[2:], "\n")
		}
		cues = append(cues, subtitle.Cue{
			ID:    id,
			Range: subtitle.TimeRange{Start: start, End: end},
			Text:  strings.TrimSpace(text),
		})
	}
	return cues, nil
}
