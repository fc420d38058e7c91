// Package semantic finds root-cause and solution passages in issue text
// using multilingual keyword cues (English, Russian, Uzbek).
package semantic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	contextBefore = 50
	contextAfter  = 450
	// Windows this short are usually a keyword near a document edge
	minContextLength = 100
)

var rootCauseKeywords = []string{
	// English
	"root cause", "caused by", "reason:", "because", "due to",
	"error was", "problem was", "issue was", "failure", "bug was",
	// Russian
	"причина", "из-за", "корень проблемы", "ошибка была",
	"проблема в том", "дело в том", "сбой", "баг",
	// Uzbek
	"sabab", "sababli", "xatolik", "muammo", "noto'g'ri",
}

var solutionKeywords = []string{
	// English
	"solution:", "fixed by", "resolved by", "fix:", "to fix",
	"implemented", "changed", "updated", "corrected", "patched",
	// Russian
	"решение", "исправлено", "фикс", "изменено",
	"реализовано", "обновлено", "поправлено", "патч",
	// Uzbek
	"yechim", "tuzatildi", "o'zgartirildi", "yangilandi",
}

// ExtractRootCause returns the context around the first root-cause keyword,
// or "" when none yields a long enough window.
func ExtractRootCause(text string) string {
	return extract(text, rootCauseKeywords)
}

// ExtractSolution returns the context around the first solution keyword,
// or "" when none yields a long enough window.
func ExtractSolution(text string) string {
	return extract(text, solutionKeywords)
}

// extract scans keywords in list order, not by position in the text.
// For each keyword present it takes 50 characters before and 450 after its
// first occurrence; a window of 100 characters or less moves on to the next keyword.
func extract(text string, keywords []string) string {
	if text == "" {
		return ""
	}

	runes := []rune(text)
	lower := lowerRunes(runes)

	for _, kw := range keywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		// lowerRunes keeps one rune per input rune, so rune offsets line up
		pos := utf8.RuneCountInString(lower[:idx])

		start := max(0, pos-contextBefore)
		end := min(len(runes), pos+contextAfter)

		context := strings.TrimSpace(string(runes[start:end]))
		if utf8.RuneCountInString(context) > minContextLength {
			return context
		}
	}
	return ""
}

func lowerRunes(runes []rune) string {
	var b strings.Builder
	b.Grow(len(runes))
	for _, r := range runes {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
