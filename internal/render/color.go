package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"subforge/internal/pipeline"
)

// The renderer stores color channels in blue-green-red order, optionally
// prefixed by an alpha byte, as upper-case hex behind an &H prefix.

// OutlineToken converts #RRGGBB into the 3-channel &HBBGGRR form used for
// outline-style colors (implicitly fully opaque).
func OutlineToken(hexColor string) (string, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("&H%02X%02X%02X", b, g, r), nil
}

// BoxToken converts #RRGGBB plus an opacity percent into the 4-channel
// &HAABBGGRR form used for box-style colors. Opacity 100 maps to alpha 0x00
// (opaque) and opacity 0 to 0xFF (fully transparent); the inversion must
// match the renderer exactly or boxes draw at the wrong transparency.
func BoxToken(hexColor string, opacityPercent int) (string, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("&H%02X%02X%02X%02X", AlphaByte(opacityPercent), b, g, r), nil
}

// AlphaByte derives the renderer's alpha byte from an opacity percent,
// clamped to [0, 255].
func AlphaByte(opacityPercent int) int {
	alpha := int(math.Round(float64(100-opacityPercent) * 255.0 / 100.0))
	if alpha < 0 {
		return 0
	}
	if alpha > 255 {
		return 255
	}
	return alpha
}

func parseHexColor(value string) (r, g, b int, err error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "#")
	if len(trimmed) != 6 {
		return 0, 0, 0, pipeline.Wrap(pipeline.ErrParse, "render", "color", fmt.Sprintf("invalid hex color %q", value), nil)
	}
	parsed, parseErr := strconv.ParseUint(trimmed, 16, 32)
	if parseErr != nil {
		return 0, 0, 0, pipeline.Wrap(pipeline.ErrParse, "render", "color", fmt.Sprintf("invalid hex color %q", value), nil)
	}
	return int(parsed >> 16 & 0xFF), int(parsed >> 8 & 0xFF), int(parsed & 0xFF), nil
}
