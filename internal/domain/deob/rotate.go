package deob

import (
	"fmt"
	"math/big"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// minRotationAttempts bounds the simulation for small tables; larger tables
// get five attempts per entry.
const minRotationAttempts = 10000

// Rotate replays the bootstrap loop: evaluate the checksum expression against
// the table and move the first entry to the end until it equals the target.
// It returns the converged table and the number of rotations applied. The
// input table is not modified.
func Rotate(table m.StringTable, info m.BootstrapInfo, offset int64) (m.StringTable, int, error) {
	node, err := parseExpr(info.ConvergenceExpr)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: checksum expression: %w", ErrRotationDidNotConverge, err)
	}

	env := &evalEnv{
		decoders: map[string]struct{}{},
		offset:   offset,
		table:    table.Clone(),
	}

	for _, name := range []string{info.Decoder, info.DecoderAlias} {
		if name != "" {
			env.decoders[name] = struct{}{}
		}
	}

	n := len(table)
	limit := max(minRotationAttempts, n*5)
	target := new(big.Rat).SetInt64(info.Target)

	for attempt := range limit {
		// Failed attempts (bad index, NaN) count as not converged.
		if v, err := node.eval(env); err == nil && !v.isStr && v.num.Cmp(target) == 0 {
			return rotated(env.table, env.shift), attempt, nil
		}

		if n > 0 {
			env.shift = (env.shift + 1) % n
		}
	}

	return nil, 0, fmt.Errorf("%w: target %#x not reached after %d attempts", ErrRotationDidNotConverge, info.Target, limit)
}

func rotated(table m.StringTable, shift int) m.StringTable {
	out := make(m.StringTable, 0, len(table))
	out = append(out, table[shift:]...)

	return append(out, table[:shift]...)
}
