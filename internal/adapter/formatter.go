package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// ErrFormatterUnavailable is returned when the reformatter binary is not installed.
var ErrFormatterUnavailable = errors.New("formatter unavailable")

// DefaultFormatterBinary is the js-beautify command line tool.
const DefaultFormatterBinary = "js-beautify"

// Formatter lays out rewritten source text.
type Formatter interface {
	Format(ctx context.Context, src string, opts m.FormatOptions) (string, error)
}

// CommandFormatter pipes the script through an external reformatter.
type CommandFormatter struct {
	lookPath func(string) (string, error)
}

// NewCommandFormatter constructs a CommandFormatter that resolves binaries on PATH.
func NewCommandFormatter() *CommandFormatter {
	return &CommandFormatter{lookPath: exec.LookPath}
}

// Format runs the reformatter. With opts.Enabled false the text is returned as is.
func (f *CommandFormatter) Format(ctx context.Context, src string, opts m.FormatOptions) (string, error) {
	if !opts.Enabled {
		return src, nil
	}

	argv := FormatterArgs(opts)

	bin, err := f.lookPath(argv[0])
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFormatterUnavailable, argv[0], err)
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Stdin = strings.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w: %s", argv[0], err, strings.TrimSpace(stderr.String()))
	}

	out := stdout.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	return out, nil
}

// FormatterArgs returns the reformatter command line for opts. Without an
// explicit command js-beautify is used, reading from stdin.
func FormatterArgs(opts m.FormatOptions) []string {
	if len(opts.Command) > 0 {
		return opts.Command
	}

	return []string{
		DefaultFormatterBinary,
		"--type", "js",
		"--indent-size", strconv.Itoa(opts.IndentSize),
		"--max-preserve-newlines", strconv.Itoa(opts.MaxPreserveNewlines),
		"--wrap-line-length", strconv.Itoa(opts.WrapLineLength),
		"-",
	}
}
