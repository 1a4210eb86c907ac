package deob

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var simpleEscapes = map[byte]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// DecodeLiteral converts a quoted source literal, quotes included, into the
// string it evaluates to. Unknown escapes yield the escaped character and a
// truncated escape at the end of the body is dropped.
func DecodeLiteral(literal string) (string, error) {
	if len(literal) < 2 || literal[0] != literal[len(literal)-1] || !isQuote(literal[0]) {
		return "", fmt.Errorf("%w: %q", ErrNotAStringLiteral, preview(literal, 30))
	}

	body := literal[1 : len(literal)-1]

	var out strings.Builder

	out.Grow(len(body))

	pending := rune(-1) // high surrogate waiting for its pair

	flush := func() {
		if pending >= 0 {
			out.WriteRune(utf8.RuneError)
			pending = -1
		}
	}

	emitUnit := func(u rune) {
		switch {
		case utf16.IsSurrogate(u) && u < 0xdc00:
			flush()
			pending = u
		case utf16.IsSurrogate(u):
			if pending >= 0 {
				out.WriteRune(utf16.DecodeRune(pending, u))
				pending = -1
			} else {
				out.WriteRune(utf8.RuneError)
			}
		default:
			flush()
			out.WriteRune(u)
		}
	}

	for i := 0; i < len(body); {
		ch := body[i]
		if ch != '\\' {
			flush()
			out.WriteByte(ch)
			i++

			continue
		}

		i++
		if i >= len(body) {
			break
		}

		esc := body[i]
		i++

		switch esc {
		case 'x':
			if i+2 > len(body) {
				i = len(body)

				continue
			}

			if v, err := strconv.ParseUint(body[i:i+2], 16, 8); err == nil {
				emitUnit(rune(v))
				i += 2
			} else {
				emitUnit('x')
			}
		case 'u':
			if i < len(body) && body[i] == '{' {
				end := strings.IndexByte(body[i+1:], '}')
				if end < 0 {
					emitUnit('u')

					continue
				}

				v, err := strconv.ParseUint(body[i+1:i+1+end], 16, 32)
				if err != nil || v > utf8.MaxRune {
					emitUnit('u')

					continue
				}

				flush()
				out.WriteRune(rune(v))
				i += end + 2

				continue
			}

			if i+4 > len(body) {
				i = len(body)

				continue
			}

			if v, err := strconv.ParseUint(body[i:i+4], 16, 16); err == nil {
				emitUnit(rune(v))
				i += 4
			} else {
				emitUnit('u')
			}
		default:
			if r, ok := simpleEscapes[esc]; ok {
				emitUnit(r)

				continue
			}

			// Pass the escaped character through, keeping multi-byte runes whole.
			r, size := utf8.DecodeRuneInString(body[i-1:])
			emitUnit(r)
			i += size - 1
		}
	}

	flush()

	return out.String(), nil
}

// EncodeLiteral renders s as a double-quoted literal that DecodeLiteral maps
// back to s. Non-ASCII text is kept verbatim; U+2028 and U+2029 are escaped so
// the literal stays on one line. Invalid UTF-8 bytes become U+FFFD.
func EncodeLiteral(s string) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	_ = enc.Encode(s) // a string value never fails to marshal

	return strings.TrimSuffix(buf.String(), "\n")
}
