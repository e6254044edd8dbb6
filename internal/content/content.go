// Package content turns API article text into what the templates print:
// sanitized bodies, plain excerpts, dates and reading times.
package content

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/models"
)

var (
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
	blockTag     = regexp.MustCompile(`(?i)<(p|div|h[1-6]|ul|ol|li|blockquote|figure|img|br|table|strong|em|a)\b`)
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	policy = newPolicy()

	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
	)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("class").OnElements("figure", "figcaption", "span", "p", "div")
	p.AllowElements("figure", "figcaption")
	return p
}

// CleanHTML strips tags, unescapes entities and collapses whitespace.
func CleanHTML(input string) string {
	cleaned := htmlTag.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	return CleanText(cleaned)
}

// CleanText replaces control characters and collapses whitespace.
func CleanText(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// IsHTML reports whether s carries markup rather than markdown or plain
// text.
func IsHTML(s string) bool {
	return blockTag.MatchString(s)
}

// Body renders article content for display. HTML from the rich text editor
// is sanitized; anything else is rendered as markdown and then sanitized.
func Body(s string) template.HTML {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}
	if IsHTML(s) {
		return template.HTML(policy.Sanitize(s))
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(policy.Sanitize(buf.String()))
}

// Sanitize applies the article policy to trusted-shape HTML such as ad
// creatives.
func Sanitize(s string) template.HTML {
	return template.HTML(policy.Sanitize(s))
}

// Truncate shortens s to at most max runes on a word boundary and appends
// an ellipsis when anything was cut.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.-") + "…"
}

// Excerpt is the plain summary of an article in locale: its excerpt, or the
// start of its body.
func Excerpt(a models.Article, locale string, max int) string {
	if s := CleanHTML(i18n.Resolve(a.Excerpt, locale)); s != "" {
		return Truncate(s, max)
	}
	return Truncate(CleanHTML(i18n.Resolve(a.Content, locale)), max)
}

// WordCount counts whitespace separated words of the plain text of s.
func WordCount(s string) int {
	return len(strings.Fields(CleanHTML(s)))
}

// MinutesFromWords estimates reading time at 200 words a minute, never
// less than a minute. Zero words give zero.
func MinutesFromWords(words int) int {
	if words <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(words)/200)))
}

// ReadingTime labels a reading time. Zero minutes gives an empty string.
func ReadingTime(minutes int, lang i18n.Language) string {
	if minutes <= 0 {
		return ""
	}
	n := i18n.Digits(lang, strconv.Itoa(minutes))
	if lang == i18n.Bengali {
		return n + " মিনিটে পড়ুন"
	}
	return n + " min read"
}

// ArticleReadingTime uses the API's figure and falls back to counting the
// body.
func ArticleReadingTime(a models.Article, lang i18n.Language) string {
	minutes := a.ReadingTime
	if minutes == 0 {
		minutes = MinutesFromWords(WordCount(i18n.Resolve(a.Content, string(lang))))
	}
	return ReadingTime(minutes, lang)
}

var bengaliMonths = [...]string{
	"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

// FormatDate renders an API timestamp as "Mar 9, 2025" or its Bengali
// equivalent. Unparseable input gives an empty string.
func FormatDate(value string, lang i18n.Language) string {
	t, ok := models.ParseTime(value)
	if !ok {
		return ""
	}
	return FormatTime(t, lang)
}

func FormatTime(t time.Time, lang i18n.Language) string {
	if t.IsZero() {
		return ""
	}
	if lang == i18n.Bengali {
		return i18n.Digits(lang, fmt.Sprintf("%d %s, %d", t.Day(), bengaliMonths[t.Month()-1], t.Year()))
	}
	return t.Format("Jan 2, 2006")
}
