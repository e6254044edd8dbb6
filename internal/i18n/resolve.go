package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Resolve picks the display string for locale: the requested locale, then
// English, then Bengali, then the first translation in source order that
// is not blank. Plain text is returned unchanged.
func Resolve(t Text, locale string) string {
	if !t.localized {
		return t.plain
	}

	for _, candidate := range localeCandidates(locale) {
		if v := t.values[candidate]; v != "" {
			return v
		}
	}
	for _, k := range t.keys {
		if v := t.values[k]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// NormalizeLocale lower-cases locale and reduces BCP-47 tags to their base
// language ("en-US" -> "en"). Unparseable input is only lower-cased.
func NormalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if l == "" {
		return ""
	}
	tag, err := language.Parse(l)
	if err != nil {
		return l
	}
	base, _ := tag.Base()
	return base.String()
}

func localeCandidates(locale string) []string {
	raw := strings.ToLower(strings.TrimSpace(locale))
	normalized := NormalizeLocale(locale)

	candidates := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	for _, c := range []string{raw, normalized, string(English), string(Bengali)} {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}
	return candidates
}
