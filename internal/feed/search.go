package feed

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchAny reports whether any field contains term, case-insensitively.
// The term is a literal substring: metacharacters have no special meaning.
func MatchAny(fields []string, term string) bool {
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), lower) {
			return true
		}
	}
	return false
}

// Highlight wraps every case-insensitive occurrence of term in text with
// wrap. The term is matched literally. An empty term returns text unchanged,
// so clearing a search restores the original content exactly.
func Highlight(text, term string, wrap func(string) string) string {
	if term == "" || wrap == nil {
		return text
	}

	lowered, offsets := foldOffsets(text)
	lowerTerm := strings.ToLower(term)
	if !strings.Contains(lowered, lowerTerm) {
		return text
	}

	var b strings.Builder
	prev := 0
	for start := 0; ; {
		i := strings.Index(lowered[start:], lowerTerm)
		if i < 0 {
			break
		}
		from := offsets[start+i]
		to := offsets[start+i+len(lowerTerm)]
		b.WriteString(text[prev:from])
		// Wrap the original-cased slice, not the query.
		b.WriteString(wrap(text[from:to]))
		prev = to
		start += i + len(lowerTerm)
	}
	b.WriteString(text[prev:])
	return b.String()
}

// foldOffsets lowercases text rune by rune and records, for every byte of
// the lowered copy plus one past the end, the byte offset in text it maps
// back to. Lowercasing can change a rune's byte length (Ⱥ grows, İ shrinks),
// so match positions in the lowered copy cannot index text directly.
func foldOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		low := unicode.ToLower(r)
		for n := utf8.RuneLen(low); n > 0; n-- {
			offsets = append(offsets, i)
		}
		b.WriteRune(low)
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}
