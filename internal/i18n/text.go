package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a display string that is either plain (locale-agnostic legacy
// content) or a set of per-locale translations.
type Text struct {
	plain     string
	localized bool
	keys      []string
	values    map[string]string
}

// Plain returns a locale-agnostic Text.
func Plain(s string) Text {
	return Text{plain: s}
}

// Localized returns a Text from locale/value pairs. Pair order is kept and
// decides the last-resort fallback in Resolve.
func Localized(pairs ...string) Text {
	t := Text{localized: true, values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.set(pairs[i], pairs[i+1])
	}
	return t
}

// EnBn is shorthand for the two locales the portal edits.
func EnBn(en, bn string) Text {
	return Localized("en", en, "bn", bn)
}

func (t *Text) set(locale, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[locale]; !ok {
		t.keys = append(t.keys, locale)
	}
	t.values[locale] = value
}

// IsZero reports whether the value is absent.
func (t Text) IsZero() bool {
	return !t.localized && t.plain == ""
}

// IsLocalized reports whether the value carries per-locale translations.
func (t Text) IsLocalized() bool {
	return t.localized
}

// Get returns the raw entry for a locale. A plain Text answers every locale.
func (t Text) Get(locale string) string {
	if !t.localized {
		return t.plain
	}
	return t.values[locale]
}

// Locales returns the translation keys in their original order.
func (t Text) Locales() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Map returns a copy of the translations, or nil for plain text.
func (t Text) Map() map[string]string {
	if !t.localized {
		return nil
	}
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// String resolves against English so Text prints sensibly in logs.
func (t Text) String() string {
	return Resolve(t, "en")
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.localized {
		if t.plain == "" {
			return []byte("null"), nil
		}
		return json.Marshal(t.plain)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a string, an object of strings, or null. Object key
// order is preserved; non-string members are skipped.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &t.plain)
	case '{':
		return t.unmarshalObject(trimmed)
	default:
		return fmt.Errorf("i18n: cannot decode %s into Text", strings.SplitN(string(trimmed), "\n", 2)[0])
	}
}

func (t *Text) unmarshalObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	t.localized = true
	t.values = make(map[string]string)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("i18n: unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		t.set(key, value)
	}

	_, err := dec.Token()
	return err
}
