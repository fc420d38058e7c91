// Package textnorm cleans tracker text and guesses its dominant language.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

var blankLinePattern = regexp.MustCompile(`\n[ \t\r]*\n`)

// Clean collapses whitespace, replaces characters outside the allowed set
// with spaces and trims the result.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		r = normalizeApostrophe(r)
		if !allowed(r) || unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Lines splits raw text on newlines and cleans each line, dropping empty ones
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = Clean(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Paragraphs splits raw text on blank lines and cleans each paragraph
func Paragraphs(text string) []string {
	var out []string
	for _, p := range blankLinePattern.Split(text, -1) {
		if p = Clean(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sentences splits cleaned text after '.', '!' or '?' followed by a space
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// DetectLanguage classifies text by its Cyrillic/Latin letter ratio.
// It is a cheap heuristic and misclassifies short or mixed text.
func DetectLanguage(text string) models.Language {
	var cyrillic, latin int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	total := cyrillic + latin
	if total == 0 {
		return models.LangMixed
	}

	lower := strings.ToLower(text)
	ratio := float64(cyrillic) / float64(total)
	switch {
	case ratio > 0.7:
		if strings.ContainsAny(lower, "ыэъё") {
			return models.LangRussian
		}
		return models.LangUzbek
	case ratio < 0.3:
		// o' and g' are matched as written; only sh ignores case
		marked := strings.Map(normalizeApostrophe, text)
		if strings.Contains(marked, "o'") || strings.Contains(marked, "g'") || strings.Contains(lower, "sh") {
			return models.LangUzbek
		}
		return models.LangEnglish
	default:
		return models.LangMixed
	}
}

// RuneLen returns the length of s in characters
func RuneLen(s string) int {
	return len([]rune(s))
}

// Truncate cuts s to at most n characters
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func allowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '_', '.', ',', ':', ';', '-', '!', '?', '\'', '"', '(', ')':
		return true
	}
	return false
}

// Uzbek Latin text uses several apostrophe lookalikes for o' and g'
func normalizeApostrophe(r rune) rune {
	switch r {
	case '‘', '’', 'ʼ', 'ʻ', '`':
		return '\''
	}
	return r
}
