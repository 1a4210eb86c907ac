package deob

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	// v = v - 0x1a0, with the same identifier on both sides.
	selfNormalization = regexp2.MustCompile(
		`(?<![\w$.])(`+identPattern+`)\s*=\s*\1\s*-\s*(0[xX][0-9a-fA-F]+|\d+)(?![\w$])`, regexp2.None)
	anySubtraction = regexp.MustCompile(`-\s*(0[xX][0-9a-fA-F]+)`)
	calledName     = regexp2.MustCompile(`(?<![\w$.])(`+identPattern+`)\s*\(`, regexp2.None)
)

// LocateDecoder guesses the canonical decoder name. The decoder is the
// function that redefines itself on first call and normalizes its index
// argument by subtracting the offset.
func LocateDecoder(text string) (string, error) {
	var fallback string

	for _, loc := range anyFunctionDecl.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > 0 && isIdentPart(text[loc[0]-1]) {
			continue
		}

		name := text[loc[2]:loc[3]]

		fn, err := functionAt(text, name, loc[1]-1)
		if err != nil || len(fn.Params) == 0 {
			continue
		}

		body := fn.Body.Slice(text)

		if ok, _ := selfNormalization.MatchString(body); !ok {
			continue
		}

		reassign := regexp.MustCompile(`(?:^|[^\w$.])` + regexp.QuoteMeta(name) + `\s*=\s*function\b`)
		if reassign.MatchString(body) {
			return name, nil
		}

		if fallback == "" {
			fallback = name
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("%w: no decoder function declaration", ErrOffsetNotFound)
}

// DecoderFromBootstrap names the decoder the bootstrap's convergence check
// calls, following a local alias such as `const un=Q` back to its target. It
// serves decoders that index the table without normalizing their argument.
func DecoderFromBootstrap(text string) (string, error) {
	info, err := LocateBootstrap(text, "")
	if err != nil {
		return "", err
	}

	region := info.Region.Slice(text)

	match, _ := calledName.FindStringMatch(info.ConvergenceExpr)
	for ; match != nil; match, _ = calledName.FindNextMatch(match) {
		name := match.Groups()[1].String()
		if name == "parseInt" || name == info.ArrayProvider {
			continue
		}

		alias := regexp.MustCompile(`(?:\b(?:const|let|var)\s+|,\s*)` + regexp.QuoteMeta(name) +
			`\s*=\s*(` + identPattern + `)\s*[,;]`)
		if target := alias.FindStringSubmatch(region); target != nil {
			name = target[1]
		}

		if _, err := findFunction(text, name); err == nil {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: convergence check calls no declared function", ErrOffsetNotFound)
}

// ExtractOffset reads the constant the decoder subtracts from its index argument.
func ExtractOffset(text, decoder string) (int64, error) {
	fn, err := findFunction(text, decoder)
	if err != nil {
		if errors.Is(err, errFunctionNotFound) {
			return 0, fmt.Errorf("%w: %w", ErrOffsetNotFound, err)
		}

		return 0, err
	}

	body := fn.Body.Slice(text)

	if len(fn.Params) > 0 {
		p := regexp.QuoteMeta(fn.Params[0])
		re := regexp.MustCompile(`(?:^|[^\w$.])` + p + `\s*=\s*` + p + `\s*-\s*(0[xX][0-9a-fA-F]+|\d+)`)

		if parts := re.FindStringSubmatch(body); parts != nil {
			return parseIntLiteral(parts[1])
		}
	}

	if match, _ := selfNormalization.FindStringMatch(body); match != nil {
		return parseIntLiteral(match.Groups()[2].String())
	}

	if parts := anySubtraction.FindStringSubmatch(body); parts != nil {
		return parseIntLiteral(parts[1])
	}

	return 0, fmt.Errorf("%w: decoder %s never subtracts a constant", ErrOffsetNotFound, decoder)
}

// parseIntLiteral reads a hex (0x) or decimal integer literal. A leading zero
// does not mean octal.
func parseIntLiteral(lit string) (int64, error) {
	base := 10
	digits := lit

	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		base, digits = 16, lit[2:]
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrOffsetNotFound, lit, err)
	}

	return v, nil
}
