package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ToISO2 normalizes any recognized language identifier ("en", "eng",
// "pt-BR") to its ISO 639-1 base code. Returns empty string for
// unrecognized input.
func ToISO2(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	iso := base.String()
	// Base.String returns ISO 639-3 for languages without a two-letter code;
	// the remote services only accept 639-1.
	if len(iso) != 2 {
		return ""
	}
	return iso
}

// DisplayName returns a human-readable English name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized
// input.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(trimmed)
}

// Same reports whether two identifiers name the same base language, so
// "en-US", "eng", and "en" all compare equal. Unparseable values compare by
// lowercased text.
func Same(a, b string) bool {
	baseA, baseB := baseOrRaw(a), baseOrRaw(b)
	return baseA != "" && baseA == baseB
}

func baseOrRaw(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	base, _ := tag.Base()
	return base.String()
}
