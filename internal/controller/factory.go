package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewUI returns the interactive TUI when output is a terminal and the
// line-oriented SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool, opts ...SimpleOption) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd, opts...)
}

// IsTTY reports whether w is a character device such as a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
