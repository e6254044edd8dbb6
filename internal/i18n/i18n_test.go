package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		text   Text
		locale string
		want   string
	}{
		{"absent", Text{}, "bn", ""},
		{"plain is locale agnostic", Plain("Legacy"), "bn", "Legacy"},
		{"requested locale", EnBn("Hello", "হ্যালো"), "bn", "হ্যালো"},
		{"requested locale is normalized", EnBn("Hello", "হ্যালো"), " BN ", "হ্যালো"},
		{"region tag reduces to base", EnBn("Hello", "হ্যালো"), "en-US", "Hello"},
		{"unsupported falls back to english", EnBn("Hello", "হ্যালো"), "fr", "Hello"},
		{"empty english falls back to bengali", EnBn("", "হ্যালো"), "fr", "হ্যালো"},
		{"whitespace entry of requested locale is kept", EnBn("  ", "হ্যালো"), "en", "  "},
		{"blank entries are skipped in source order", Localized("de", "  ", "fr", "Bonjour"), "it", "Bonjour"},
		{"first non-empty in source order", Localized("de", "", "fr", "Bonjour", "es", "Hola"), "it", "Bonjour"},
		{"all empty", Localized("en", "", "bn", ""), "en", ""},
		{"empty locale", EnBn("Hello", "হ্যালো"), "", "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.text, tt.locale))
		})
	}
}

func TestResolvePlainIsIdempotent(t *testing.T) {
	text := Plain("Dhaka")
	once := Resolve(text, "bn")
	assert.Equal(t, once, Resolve(Plain(once), "en"))
}

func TestTextUnmarshalJSON(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var text Text
		require.NoError(t, json.Unmarshal([]byte(`"World"`), &text))
		assert.False(t, text.IsLocalized())
		assert.Equal(t, "World", Resolve(text, "bn"))
	})

	t.Run("object keeps key order", func(t *testing.T) {
		var text Text
		require.NoError(t, json.Unmarshal([]byte(`{"zz":"last?","aa":"","de":"Hallo"}`), &text))
		assert.Equal(t, []string{"zz", "aa", "de"}, text.Locales())
		assert.Equal(t, "last?", Resolve(text, "fr"))
	})

	t.Run("non-string members are skipped", func(t *testing.T) {
		var text Text
		require.NoError(t, json.Unmarshal([]byte(`{"en":5,"bn":"খবর","meta":{"a":1}}`), &text))
		assert.Equal(t, "খবর", Resolve(text, "en"))
	})

	t.Run("null", func(t *testing.T) {
		var text Text
		require.NoError(t, json.Unmarshal([]byte(`null`), &text))
		assert.True(t, text.IsZero())
	})

	t.Run("number is rejected", func(t *testing.T) {
		var text Text
		assert.Error(t, json.Unmarshal([]byte(`42`), &text))
	})
}

func TestTextMarshalJSON(t *testing.T) {
	data, err := json.Marshal(EnBn("Tech", "প্রযুক্তি"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"en":"Tech","bn":"প্রযুক্তি"}`, string(data))

	data, err = json.Marshal(struct {
		Name Text `json:"name"`
	}{Name: Plain("Tech")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Tech"}`, string(data))
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, English, Negotiate("en-GB,en;q=0.9", Bengali))
	assert.Equal(t, Bengali, Negotiate("bn-BD", English))
	assert.Equal(t, Bengali, Negotiate("fr-FR", Bengali))
	assert.Equal(t, English, Negotiate("", English))
}

func TestParseLanguageAndToggle(t *testing.T) {
	lang, ok := ParseLanguage("EN")
	require.True(t, ok)
	assert.Equal(t, English, lang)
	assert.Equal(t, Bengali, lang.Toggle())

	_, ok = ParseLanguage("fr")
	assert.False(t, ok)
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "৫ মিনিট", Digits(Bengali, "5 মিনিট"))
	assert.Equal(t, "5 min read", Digits(English, "5 min read"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "সর্বশেষ শিরোনাম", Label(Bengali, "site.latest"))
	assert.Equal(t, "Latest headlines", Label(English, "site.latest"))
	assert.Equal(t, "missing.key", Label(English, "missing.key"))
}
