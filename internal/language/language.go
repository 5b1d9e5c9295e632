package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// aliases covers word forms and ISO 639-2/B codes that tag parsing does not
// resolve on its own.
var aliases = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"polish":     "pl",
	"russian":    "ru",
	"chinese":    "zh",
	"japanese":   "ja",
	"fre":        "fr",
	"ger":        "de",
	"dut":        "nl",
	"chi":        "zh",
}

func lookup(code string) (xlang.Base, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return xlang.Base{}, false
	}
	if mapped, ok := aliases[code]; ok {
		code = mapped
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return xlang.Base{}, false
	}
	base, confidence := tag.Base()
	if confidence == xlang.No {
		return xlang.Base{}, false
	}
	return base, true
}

// ToISO2 converts a language code, BCP 47 tag, or English word to ISO 639-1.
// Returns empty string for unrecognized input. Unknown 2-letter codes pass through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if base, ok := lookup(code); ok {
		return base.String()
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts a recognized language to ISO 639-2. Returns "und" when the
// input cannot be resolved and is not already a 3-letter code.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if base, ok := lookup(code); ok {
		return base.ISO3()
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns the English name of a language.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if base, ok := lookup(code); ok {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
