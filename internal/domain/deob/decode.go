package deob

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// DecodeFunction maps an obfuscated index to its string: table[index-offset].
// The table is frozen at construction.
type DecodeFunction struct {
	offset int64
	table  m.StringTable
}

// NewDecodeFunction freezes a copy of the converged table.
func NewDecodeFunction(table m.StringTable, offset int64) *DecodeFunction {
	return &DecodeFunction{offset: offset, table: table.Clone()}
}

// Decode returns the string stored for index.
func (d *DecodeFunction) Decode(index int64) (string, error) {
	pos := index - d.offset
	if pos < 0 || pos >= int64(len(d.table)) {
		return "", fmt.Errorf("%w: index %#x (offset %#x, %d entries)", ErrIndexOutOfRange, index, d.offset, len(d.table))
	}

	return d.table[pos].Value, nil
}

// Len is the number of table entries.
func (d *DecodeFunction) Len() int { return len(d.table) }

// DecodeCache memoizes decoded indices for a single run.
type DecodeCache struct {
	entries *lru.Cache[int64, string]
}

// NewDecodeCache sizes the cache for size distinct indices. A run can never
// decode more distinct indices than the table holds, so sizing it to the
// table keeps every entry.
func NewDecodeCache(size int) *DecodeCache {
	entries, _ := lru.New[int64, string](max(size, 1))

	return &DecodeCache{entries: entries}
}

// Lookup returns the cached string for index, decoding it on first use.
func (c *DecodeCache) Lookup(fn *DecodeFunction, index int64) (string, error) {
	if s, ok := c.entries.Get(index); ok {
		return s, nil
	}

	s, err := fn.Decode(index)
	if err != nil {
		return "", err
	}

	c.entries.Add(index, s)

	return s, nil
}

// Len is the number of distinct indices decoded so far.
func (c *DecodeCache) Len() int { return c.entries.Len() }
