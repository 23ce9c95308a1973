// Package render compiles cue sequences and style profiles into the
// line-oriented subtitle script consumed by the overlay renderer and the
// burn-in encoder, plus the SRT and plain-text export formats.
package render

import (
	"fmt"
	"strings"

	"subforge/internal/subtitle"
	"subforge/internal/timecode"
)

// Canvas resolution declared in the script header. The renderer scales
// against these values, so they are fixed rather than probed per video.
const (
	playResX = 1280
	playResY = 720
)

const styleName = "Default"

// Outline widths per border-style branch. The box branch uses the wider
// value so the opaque box has visible padding around the text.
const (
	boxOutlineWidth  = 4
	textOutlineWidth = 2
)

// Script compiles the cue sequence and style profile into the renderer's
// native script text. One event line is emitted per input cue, in input
// order; cues are never merged, reordered, or dropped.
func Script(cues []subtitle.Cue, style subtitle.StyleProfile) (string, error) {
	styleLine, err := styleLine(style)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", playResX)
	fmt.Fprintf(&b, "PlayResY: %d\n", playResY)
	b.WriteString("ScaledBorderAndShadow: yes\n")
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	b.WriteString(styleLine)
	b.WriteString("\n\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		start := timecode.Format(cue.Range.Start, timecode.DotSeparator, timecode.Centiseconds)
		end := timecode.Format(cue.Range.End, timecode.DotSeparator, timecode.Centiseconds)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n", start, end, styleName, escapeEventText(cue.Text))
	}
	return b.String(), nil
}

func styleLine(style subtitle.StyleProfile) (string, error) {
	// The font color fills both primary and secondary slots; the renderer
	// only uses secondary for karaoke effects this pipeline never emits.
	primary, err := BoxToken(style.FontColor, 100)
	if err != nil {
		return "", err
	}

	var outlineColor string
	var borderStyle, outlineWidth int
	switch style.BorderStyle {
	case subtitle.BorderOpaqueBox, subtitle.BorderBoxed:
		outlineColor, err = BoxToken(style.BackgroundColor, style.BackgroundOpacity)
		if err != nil {
			return "", err
		}
		borderStyle = 3
		outlineWidth = boxOutlineWidth
	default:
		outlineColor, err = OutlineToken(style.OutlineColor)
		if err != nil {
			return "", err
		}
		borderStyle = 1
		outlineWidth = textOutlineWidth
	}

	back, err := BoxToken(style.BackgroundColor, style.BackgroundOpacity)
	if err != nil {
		return "", err
	}

	fontSize := style.FontSize
	if fontSize <= 0 {
		fontSize = 24
	}
	fontFamily := strings.TrimSpace(style.FontFamily)
	if fontFamily == "" {
		fontFamily = "Arial"
	}

	return fmt.Sprintf("Style: %s,%s,%d,%s,%s,%s,%s,%d,%d,%d,0,100,100,0,0,%d,%d,0,2,10,10,%d,1",
		styleName,
		fontFamily,
		fontSize,
		primary,
		primary,
		outlineColor,
		back,
		assBool(style.Bold),
		assBool(style.Italic),
		assBool(style.Underline),
		borderStyle,
		outlineWidth,
		style.MarginBottom,
	), nil
}

func assBool(v bool) int {
	if v {
		return -1
	}
	return 0
}

// escapeEventText replaces internal newlines with the renderer's line-break
// escape and neutralizes override-block braces.
func escapeEventText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "{", "(")
	text = strings.ReplaceAll(text, "}", ")")
	text = strings.ReplaceAll(text, "\n", `\N`)
	return text
}
