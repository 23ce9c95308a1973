package render

import (
	"testing"

	"subforge/internal/subtitle"
)

func TestSRT(t *testing.T) {
	cues := []subtitle.Cue{
		{ID: "x", Range: subtitle.TimeRange{Start: 5.0, End: 7.5}, Text: "hi"},
		{ID: "y", Range: subtitle.TimeRange{Start: 245.0, End: 247.5}, Text: "second cue"},
	}
	got := SRT(cues)
	want := `1
0:00:05,000 --> 0:00:07,500
hi

2
0:04:05,000 --> 0:04:07,500
second cue
`
	if got != want {
		t.Errorf("SRT output:\n%q\nwant:\n%q", got, want)
	}
}

func TestSRTEmpty(t *testing.T) {
	if got := SRT(nil); got != "" {
		t.Errorf("SRT(nil) = %q, want empty", got)
	}
}

func TestTranscript(t *testing.T) {
	cues := []subtitle.Cue{
		{Text: "first line"},
		{Text: "   "},
		{Text: "second line"},
	}
	want := "first line\n\nsecond line"
	if got := Transcript(cues); got != want {
		t.Errorf("Transcript = %q, want %q", got, want)
	}
}

func TestParseSRTRoundTrip(t *testing.T) {
	cues := []subtitle.Cue{
		{Range: subtitle.TimeRange{Start: 5.0, End: 7.5}, Text: "hi"},
		{Range: subtitle.TimeRange{Start: 245.0, End: 247.5}, Text: "two\nlines"},
	}
	parsed, err := ParseSRT(SRT(cues))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d cues, want 2", len(parsed))
	}
	if parsed[0].ID != "1" || parsed[1].ID != "2" {
		t.Errorf("ids = %q %q", parsed[0].ID, parsed[1].ID)
	}
	if parsed[0].Range.Start != 5.0 || parsed[0].Range.End != 7.5 {
		t.Errorf("cue 0 range = %+v", parsed[0].Range)
	}
	if parsed[1].Text != "two\nlines" {
		t.Errorf("cue 1 text = %q", parsed[1].Text)
	}
}

func TestParseSRTWindowsLineEndings(t *testing.T) {
	content := "1\r\n0:00:01,000 --> 0:00:02,000\r\nhello\r\n\r\n2\r\n0:00:03,000 --> 0:00:04,000\r\nworld\r\n"
	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != 2 || cues[1].Text != "world" {
		t.Fatalf("parsed = %+v", cues)
	}
}

func TestParseSRTMalformedTiming(t *testing.T) {
	content := "1\n0:00:01,000 -> 0:00:02,000\nhello\n"
	if _, err := ParseSRT(content); err == nil {
		t.Fatal("expected error for malformed timing line")
	}
}
