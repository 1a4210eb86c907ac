package model

import "sort"

// Element is a single entry of the hoisted string array. Non-string entries
// are kept as their raw source token and flagged with Raw.
type Element struct {
	Value string
	Raw   bool
}

// StringTable is the ordered content of the hoisted string array.
type StringTable []Element

// Clone returns an independent copy of the table.
func (t StringTable) Clone() StringTable {
	out := make(StringTable, len(t))
	copy(out, t)

	return out
}

// BootstrapInfo describes the rotation IIFE found in the source.
type BootstrapInfo struct {
	// ArrayProvider is the function returning the string array.
	ArrayProvider string
	// Target is the checksum the rotation loop compares against.
	Target int64
	// Decoder is the canonical decoder function name.
	Decoder string
	// DecoderAlias is the local name bound to the decoder inside the IIFE.
	DecoderAlias string
	// ConvergenceExpr is the raw checksum expression text.
	ConvergenceExpr string
	// Region covers the function expression together with its invocation.
	Region Region
}

// AliasSet holds every name that refers to the decoder function.
type AliasSet map[string]struct{}

// Has reports whether name is a decoder alias.
func (s AliasSet) Has(name string) bool {
	_, ok := s[name]

	return ok
}

// Sorted returns the aliases in lexical order.
func (s AliasSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
