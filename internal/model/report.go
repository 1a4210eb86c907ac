package model

// DefaultOutputSuffix replaces the input extension to name the readable output.
const DefaultOutputSuffix = ".readable.js"

// FormatOptions configures the external reformatter.
type FormatOptions struct {
	Enabled             bool
	IndentSize          int
	MaxPreserveNewlines int
	WrapLineLength      int
	// Command overrides the reformatter invocation; it must read the script on
	// stdin and print the formatted script on stdout.
	Command []string
}

// DefaultFormatOptions mirrors the layout the readable output is expected in.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		Enabled:             true,
		IndentSize:          2,
		MaxPreserveNewlines: 2,
		WrapLineLength:      120,
	}
}

// Report summarizes the run over one source file. Err is set when the file
// failed; no output is written in that case.
type Report struct {
	Origin        Path
	Output        Path
	UniqueIndices int // distinct decoder indices replaced
	Aliases       int // size of the resolved alias set
	CallSites     int
	Rotations     int
	InputSize     int64
	OutputSize    int64
	Diff          string // unified diff of the raw rewrite, when requested
	Err           error
}

// Failed reports whether the file could not be deobfuscated.
func (r Report) Failed() bool {
	return r.Err != nil
}

// Inspection is the recognition result for a source file without rewriting.
type Inspection struct {
	Origin    Path
	Decoder   string
	Bootstrap BootstrapInfo
	Offset    int64
	Rotations int
	Table     StringTable
	Aliases   []string
}
