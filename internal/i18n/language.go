package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a UI language the portal ships translations for.
type Language string

const (
	English Language = "en"
	Bengali Language = "bn"
)

// Supported lists UI languages. The first entry is the matcher default.
var Supported = []Language{Bengali, English}

var matcher = language.NewMatcher([]language.Tag{language.Bengali, language.English})

// ParseLanguage accepts "en"/"bn" in any case and reports whether it is
// supported.
func ParseLanguage(s string) (Language, bool) {
	switch Language(NormalizeLocale(s)) {
	case English:
		return English, true
	case Bengali:
		return Bengali, true
	}
	return "", false
}

// Toggle flips between English and Bengali.
func (l Language) Toggle() Language {
	if l == English {
		return Bengali
	}
	return English
}

func (l Language) String() string { return string(l) }

// Negotiate chooses a language from an Accept-Language header, falling back
// to def when the header names nothing we support.
func Negotiate(acceptLanguage string, def Language) Language {
	if strings.TrimSpace(acceptLanguage) == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return Supported[idx]
}

var bengaliDigits = []rune{'০', '১', '২', '৩', '৪', '৫', '৬', '৭', '৮', '৯'}

// Digits renders ASCII digits with Bengali numerals when lang is Bengali.
func Digits(lang Language, s string) string {
	if lang != Bengali {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(bengaliDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
