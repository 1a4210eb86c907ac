// Package model defines the data structures shared by the deobfuscation layers.
package model

// Path represents a file system path.
type Path string

// Source is an obfuscated input file read fully into memory.
type Source struct {
	Origin Path
	// Text holds the best-effort UTF-8 decoded file contents.
	Text string
	// Size is the on-disk size in bytes before decoding.
	Size int64
}

// Region is a half-open [Start, End) offset pair into a source text.
// Text[Start] is the opening delimiter and Text[End-1] its matching close.
type Region struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the region.
func (r Region) Len() int {
	return r.End - r.Start
}

// Slice returns the part of text covered by the region.
func (r Region) Slice(text string) string {
	return text[r.Start:r.End]
}

// Inner returns the part of text between the delimiters.
func (r Region) Inner(text string) string {
	return text[r.Start+1 : r.End-1]
}
