package deob

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	m "github.com/mouse-blink/unrotate/internal/model"
)

var (
	bootstrapMarker = regexp.MustCompile(
		`\(\s*function\s*\(\s*(` + identPattern + `)\s*,\s*(` + identPattern + `)\s*\)\s*\{`)
	invocationArgs = regexp.MustCompile(`^(` + identPattern + `)\s*,\s*(0[xX][0-9a-fA-F]+)$`)
)

// LocateBootstrap finds the self-invoking rotation function, called with the
// array provider and the target checksum, and reads its convergence check.
// decoder is the canonical decoder name the IIFE may alias locally.
func LocateBootstrap(text, decoder string) (m.BootstrapInfo, error) {
	candidates := bootstrapMarker.FindAllStringSubmatchIndex(text, -1)
	if len(candidates) == 0 {
		return m.BootstrapInfo{}, fmt.Errorf("%w: no two-parameter self-invoking function", ErrBootstrapNotFound)
	}

	var firstErr error

	for _, loc := range candidates {
		info, err := bootstrapAt(text, loc, decoder)
		if err == nil {
			return info, nil
		}

		// Unrelated two-parameter IIFEs fail on their invocation shape or have
		// no convergence check; keep looking.
		if !errors.Is(err, ErrMalformedInvocation) && !errors.Is(err, ErrUnbalancedStructure) &&
			!errors.Is(err, ErrBootstrapNotFound) {
			return m.BootstrapInfo{}, err
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return m.BootstrapInfo{}, firstErr
}

func bootstrapAt(text string, loc []int, decoder string) (m.BootstrapInfo, error) {
	start := loc[0]
	checksumParam := text[loc[4]:loc[5]]

	outer, err := Scan(text, start, '(', ')')
	if err != nil {
		return m.BootstrapInfo{}, err
	}

	body, err := Scan(text, loc[1]-1, '{', '}')
	if err != nil {
		return m.BootstrapInfo{}, err
	}

	// Both `(function(a,b){...}(x,0x1))` and `(function(a,b){...})(x,0x1)`.
	call := skipSpace(text, body.End)
	if call >= outer.End-1 || text[call] != '(' {
		call = skipSpace(text, outer.End)
	}

	if call >= len(text) || text[call] != '(' {
		return m.BootstrapInfo{}, fmt.Errorf("%w: function at offset %d is not invoked", ErrMalformedInvocation, start)
	}

	invocation, err := Scan(text, call, '(', ')')
	if err != nil {
		return m.BootstrapInfo{}, err
	}

	args := strings.TrimSpace(invocation.Inner(text))

	parts := invocationArgs.FindStringSubmatch(args)
	if parts == nil {
		return m.BootstrapInfo{}, fmt.Errorf("%w: arguments %q", ErrMalformedInvocation, preview(args, 120))
	}

	target, err := strconv.ParseInt(parts[2][2:], 16, 64)
	if err != nil {
		return m.BootstrapInfo{}, fmt.Errorf("%w: checksum %s: %w", ErrMalformedInvocation, parts[2], err)
	}

	info := m.BootstrapInfo{
		ArrayProvider: parts[1],
		Target:        target,
		Decoder:       decoder,
		DecoderAlias:  decoder,
		Region:        m.Region{Start: start, End: max(outer.End, invocation.End)},
	}

	fnBody := body.Slice(text)

	if alias := findLocalAlias(fnBody, decoder); alias != "" {
		info.DecoderAlias = alias
	}

	expr, err := findConvergenceExpr(fnBody, checksumParam)
	if err != nil {
		return m.BootstrapInfo{}, err
	}

	info.ConvergenceExpr = expr

	return info, nil
}

// findLocalAlias returns the short local name bound to decoder, e.g. `const un=Q,`.
func findLocalAlias(body, decoder string) string {
	if decoder == "" {
		return ""
	}

	re := regexp.MustCompile(`(?:\b(?:const|let|var)\s+|,\s*)(` + identPattern + `)\s*=\s*` +
		regexp.QuoteMeta(decoder) + `\s*[,;]`)

	if parts := re.FindStringSubmatch(body); parts != nil {
		return parts[1]
	}

	return ""
}

// findConvergenceExpr extracts the right-hand side of the declaration that is
// compared against the checksum parameter: `const K=<expr>;if(K===O)`.
func findConvergenceExpr(body, checksumParam string) (string, error) {
	re := regexp2.MustCompile(`(?:\b(?:const|let|var)\s+|,\s*)(`+identPattern+`)\s*=\s*([^;]+?)\s*;?\s*`+
		`if\s*\(\s*\1\s*===?\s*`+regexp2.Escape(checksumParam)+`\s*\)`, regexp2.None)

	match, err := re.FindStringMatch(body)
	if err != nil {
		return "", fmt.Errorf("%w: convergence check: %w", ErrBootstrapNotFound, err)
	}

	if match == nil {
		return "", fmt.Errorf("%w: no declaration compared against %s", ErrBootstrapNotFound, checksumParam)
	}

	return strings.TrimSpace(match.Groups()[2].String()), nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
