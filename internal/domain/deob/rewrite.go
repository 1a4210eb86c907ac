package deob

import (
	"fmt"
	"strconv"

	"github.com/dlclark/regexp2"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// name(0x1a3) not preceded by an identifier character or a member access dot.
var callSite = regexp2.MustCompile(
	`(?<![\w$.])(`+identPattern+`)\(\s*(0[xX][0-9a-fA-F]+)\s*\)`, regexp2.None)

// RewriteStats summarizes one rewrite pass.
type RewriteStats struct {
	UniqueIndices int
	Aliases       int
	CallSites     int
}

// Rewrite replaces every decoder call with a literal index argument by the
// decoded string as a double-quoted literal. Calls to names outside aliases
// are left untouched, as are calls quoted inside string literals or
// comments. The first failed decode aborts the pass.
func Rewrite(text string, fn *DecodeFunction, aliases m.AliasSet, cache *DecodeCache) (string, RewriteStats, error) {
	stats := RewriteStats{Aliases: len(aliases)}
	literals := literalSpans(text)

	var decodeErr error

	out, err := callSite.ReplaceFunc(text, func(match regexp2.Match) string {
		groups := match.Groups()
		if decodeErr != nil || !aliases.Has(groups[1].String()) || inSpans(literals, match.Index) {
			return match.String()
		}

		hex := groups[2].String()

		index, err := strconv.ParseInt(hex[2:], 16, 64)
		if err != nil {
			decodeErr = fmt.Errorf("%w: %s: %w", ErrIndexOutOfRange, hex, err)

			return match.String()
		}

		s, err := cache.Lookup(fn, index)
		if err != nil {
			decodeErr = fmt.Errorf("call %s at offset %d: %w", match.String(), match.Index, err)

			return match.String()
		}

		stats.CallSites++

		return EncodeLiteral(s)
	}, -1, -1)
	if err != nil {
		return "", RewriteStats{}, fmt.Errorf("rewrite call sites: %w", err)
	}

	if decodeErr != nil {
		return "", RewriteStats{}, decodeErr
	}

	stats.UniqueIndices = cache.Len()

	return out, stats, nil
}
