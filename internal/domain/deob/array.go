package deob

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	m "github.com/mouse-blink/unrotate/internal/model"
)

var arrayDecl = regexp.MustCompile(`\b(?:const|let|var)\s+` + identPattern + `\s*=\s*\[`)

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// ExtractArray reads the array literal declared inside the provider function.
func ExtractArray(text, provider string) (m.StringTable, error) {
	fn, err := findFunction(text, provider)
	if err != nil {
		if errors.Is(err, errFunctionNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrArrayLiteralNotFound, err)
		}

		return nil, err
	}

	body := fn.Body.Slice(text)

	loc := arrayDecl.FindStringIndex(body)
	if loc == nil {
		return nil, fmt.Errorf("%w: provider %s declares no array", ErrArrayLiteralNotFound, provider)
	}

	lit, err := Scan(body, loc[1]-1, '[', ']')
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArrayLiteralNotFound, err)
	}

	table, err := parseArrayLiteral(lit.Slice(body))
	if err != nil {
		return nil, fmt.Errorf("%w: provider %s: %w", ErrArrayLiteralNotFound, provider, err)
	}

	return table, nil
}

// parseArrayLiteral splits `[...]` into elements. Quoted elements are decoded,
// anything else is kept verbatim.
func parseArrayLiteral(lit string) (m.StringTable, error) {
	end := len(lit) - 1
	table := m.StringTable{}

	for i := 1; i < end; {
		ch := lit[i]

		if ch == ',' || ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++

			continue
		}

		if isQuote(ch) {
			j := min(skipString(lit, i), end)

			s, err := DecodeLiteral(lit[i:j])
			if err != nil {
				return nil, err
			}

			table = append(table, m.Element{Value: s})
			i = j

			continue
		}

		j := i

		for j < end && lit[j] != ',' {
			switch c := lit[j]; {
			case closers[c] != 0:
				r, err := Scan(lit, j, c, closers[c])
				if err != nil {
					return nil, err
				}

				j = r.End
			case isQuote(c):
				j = skipString(lit, j)
			default:
				j++
			}
		}

		j = min(j, end)
		table = append(table, m.Element{Value: strings.TrimSpace(lit[i:j]), Raw: true})
		i = j
	}

	return table, nil
}
