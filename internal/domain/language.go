package domain

import "strings"

// Supported content languages
const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// IsArabic reports whether a language tag selects Arabic content ("ar", "ar-SD", ...)
func IsArabic(lang string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), LanguageArabic)
}

// pickLocalized returns the preferred-language variant, falling back to the
// base field and then to the other language
func pickLocalized(lang, base, en, ar string) string {
	if IsArabic(lang) {
		return firstNonEmpty(ar, base, en)
	}
	return firstNonEmpty(en, base, ar)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
