package subtitle

// BorderStyle selects how subtitle text is framed on screen.
type BorderStyle string

const (
	BorderBoxed       BorderStyle = "boxed"
	BorderOpaqueBox   BorderStyle = "opaque_box"
	BorderTextOutline BorderStyle = "text_outline"
	BorderDropShadow  BorderStyle = "dropshadow"
)

// StyleProfile describes how rendered subtitles look. It is created with
// defaults at account creation, edited per video, and treated as an
// immutable value for the duration of a render call.
type StyleProfile struct {
	FontFamily        string      `json:"font_family"`
	FontSize          int         `json:"font_size"`
	Bold              bool        `json:"bold"`
	Italic            bool        `json:"italic"`
	Underline         bool        `json:"underline"`
	FontColor         string      `json:"font_color"`
	OutlineColor      string      `json:"outline_color"`
	OutlineWidth      int         `json:"outline_width"`
	BorderStyle       BorderStyle `json:"border_style"`
	BackgroundColor   string      `json:"background_color"`
	BackgroundOpacity int         `json:"background_opacity"`
	MarginBottom      int         `json:"margin_bottom"`
}

// DefaultStyle returns the profile assigned to new accounts.
func DefaultStyle() StyleProfile {
	return StyleProfile{
		FontFamily:        "Arial",
		FontSize:          24,
		FontColor:         "#FFFFFF",
		OutlineColor:      "#000000",
		OutlineWidth:      2,
		BorderStyle:       BorderTextOutline,
		BackgroundColor:   "#000000",
		BackgroundOpacity: 80,
		MarginBottom:      20,
	}
}
