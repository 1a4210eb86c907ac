package deob

import (
	"fmt"
	"sort"
	"unicode/utf8"

	m "github.com/mouse-blink/unrotate/internal/model"
)

func isQuote(ch byte) bool {
	return ch == '\'' || ch == '"' || ch == '`'
}

// Scan returns the region opened by text[start] and closed by its matching
// close delimiter. Delimiters inside quoted strings are ignored.
func Scan(text string, start int, open, close byte) (m.Region, error) {
	if start < 0 || start >= len(text) || text[start] != open {
		return m.Region{}, fmt.Errorf("%w: expected %q at offset %d", ErrPreconditionViolated, open, start)
	}

	depth := 0

	var quote byte

	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}

			continue
		}

		switch {
		case isQuote(ch):
			quote = ch
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return m.Region{Start: start, End: i + 1}, nil
			}
		}
	}

	return m.Region{}, fmt.Errorf("%w: %q opened at offset %d is never closed", ErrUnbalancedStructure, open, start)
}

// skipString returns the offset just past the quoted string starting at
// text[start], or len(text) when the string is unterminated.
func skipString(text string, start int) int {
	quote := text[start]
	escaped := false

	for i := start + 1; i < len(text); i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		case text[i] == quote:
			return i + 1
		}
	}

	return len(text)
}

// literalSpans lists, in rune offsets, the string literals and comments of
// text. The text of a template substitution `${...}` is code and falls
// outside the spans.
func literalSpans(text string) []m.Region {
	var (
		spans   []m.Region
		quote   rune
		escaped bool
		start   int
		depth   int
		resume  []int // brace depth at each open template substitution
	)

	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				spans = append(spans, m.Region{Start: start, End: i + 1})
				quote = 0
			case quote == '`' && ch == '$' && i+1 < len(runes) && runes[i+1] == '{':
				spans = append(spans, m.Region{Start: start, End: i})
				resume = append(resume, depth)
				quote = 0
				i++
			}

			continue
		}

		switch {
		case ch < utf8.RuneSelf && isQuote(byte(ch)):
			quote, start = ch, i
		case ch == '/' && i+1 < len(runes) && (runes[i+1] == '/' || runes[i+1] == '*'):
			end := commentEnd(runes, i)
			spans = append(spans, m.Region{Start: i, End: end})
			i = end - 1
		case ch == '{':
			depth++
		case ch == '}':
			if n := len(resume); n > 0 && resume[n-1] == depth {
				resume = resume[:n-1]
				quote, start = '`', i
			} else {
				depth--
			}
		}
	}

	if quote != 0 {
		spans = append(spans, m.Region{Start: start, End: len(runes)})
	}

	return spans
}

func commentEnd(runes []rune, start int) int {
	block := runes[start+1] == '*'

	for i := start + 2; i < len(runes); i++ {
		if !block && runes[i] == '\n' {
			return i
		}

		if block && runes[i] == '/' && runes[i-1] == '*' && i > start+2 {
			return i + 1
		}
	}

	return len(runes)
}

// inSpans reports whether pos falls inside one of the sorted spans.
func inSpans(spans []m.Region, pos int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > pos })

	return i < len(spans) && spans[i].Start <= pos
}
