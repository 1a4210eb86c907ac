package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// Inspection output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const highlightStyle = "nord"

var (
	colorOK     = color.New(color.FgGreen, color.Bold).SprintFunc()
	colorFail   = color.New(color.FgRed, color.Bold).SprintFunc()
	colorPath   = color.New(color.FgCyan).SprintFunc()
	colorCount  = color.New(color.FgYellow).SprintFunc()
	colorAdd    = color.New(color.FgGreen).SprintFunc()
	colorDel    = color.New(color.FgRed).SprintFunc()
	colorHunk   = color.New(color.FgCyan, color.Bold).SprintFunc()
	colorHeader = color.New(color.Bold).SprintFunc()
)

// SimpleOption configures a SimpleUI.
type SimpleOption func(*SimpleUI)

// WithHighlight enables syntax highlighting of printed scripts.
func WithHighlight(enabled bool) SimpleOption {
	return func(s *SimpleUI) {
		s.highlight = enabled
	}
}

// WithInspectFormat selects how inspections are printed: table, json or yaml.
func WithInspectFormat(format string) SimpleOption {
	return func(s *SimpleUI) {
		s.format = format
	}
}

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd       *cobra.Command
	highlight bool
	format    string

	mu sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, opts ...SimpleOption) *SimpleUI {
	s := &SimpleUI{cmd: cmd, format: FormatTable}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the UI.
func (s *SimpleUI) Start(_ ...StartOption) error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {}

// Wait returns immediately; there is nothing to dismiss.
func (s *SimpleUI) Wait() {}

// DisplayBatchInfo announces how many scripts are processed and by how many workers.
func (s *SimpleUI) DisplayBatchInfo(files int, threads int) {
	if files <= 1 {
		return
	}

	s.printf("Deobfuscating %s scripts with %d worker(s)\n", colorCount(files), threads)
}

// DisplayStartingFile is silent; progress is reported on completion.
func (s *SimpleUI) DisplayStartingFile(_ m.Path, _ int) {}

// DisplayCompletedFile prints the outcome for one script.
func (s *SimpleUI) DisplayCompletedFile(report m.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.Failed() {
		s.printf("%s %s: %v\n", colorFail("✗"), colorPath(report.Origin), report.Err)

		return
	}

	if report.Diff != "" {
		s.printf("%s", colorizeDiff(report.Diff))
	}

	if report.Output != "" {
		s.printf("%s Wrote: %s\n", colorOK("✓"), colorPath(report.Output))
	}

	s.printf("Decoded %s unique string indices; aliases: %s\n",
		colorCount(report.UniqueIndices), colorCount(report.Aliases))
}

// DisplaySummary prints a table over every processed script when there was
// more than one.
func (s *SimpleUI) DisplaySummary(reports []m.Report) {
	if len(reports) <= 1 {
		return
	}

	sorted := sortedReports(reports)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Script", "Status", "Indices", "Aliases", "Call Sites", "Size"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	var failed, indices int

	for _, report := range sorted {
		if report.Failed() {
			failed++

			table.Append([]string{string(report.Origin), "failed", "-", "-", "-", humanize.Bytes(uint64(report.InputSize))})

			continue
		}

		indices += report.UniqueIndices

		table.Append([]string{
			string(report.Origin),
			"ok",
			fmt.Sprintf("%d", report.UniqueIndices),
			fmt.Sprintf("%d", report.Aliases),
			fmt.Sprintf("%d", report.CallSites),
			sizeChange(report),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Scripts %d", len(sorted)),
		fmt.Sprintf("Failed %d", failed),
		fmt.Sprintf("%d", indices),
		"", "", "",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

// DisplayInspection prints what was recognized in a script.
func (s *SimpleUI) DisplayInspection(insp m.Inspection) error {
	view := newInspectionView(insp)

	switch s.format {
	case FormatJSON:
		enc := json.NewEncoder(s.out())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)

		return enc.Encode(view)
	case FormatYAML:
		enc := yaml.NewEncoder(s.out())
		enc.SetIndent(2)

		if err := enc.Encode(view); err != nil {
			return err
		}

		return enc.Close()
	case FormatTable, "":
		s.printInspectionTable(view)

		return nil
	default:
		return fmt.Errorf("unknown inspection format %q", s.format)
	}
}

func (s *SimpleUI) printInspectionTable(view inspectionView) {
	s.printf("%s %s\n", colorHeader("Script:   "), colorPath(view.Script))
	s.printf("%s %s\n", colorHeader("Decoder:  "), view.Decoder)
	s.printf("%s %s\n", colorHeader("Aliases:  "), strings.Join(view.Aliases, ", "))
	s.printf("%s %s\n", colorHeader("Provider: "), view.Provider)
	s.printf("%s %s\n", colorHeader("Target:   "), view.Target)
	s.printf("%s %s\n", colorHeader("Checksum: "), view.Checksum)
	s.printf("%s %s\n", colorHeader("Offset:   "), view.Offset)
	s.printf("%s %d\n", colorHeader("Rotations:"), view.Rotations)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Index", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, entry := range view.Table {
		value := entry.Value
		if !entry.Raw {
			value = quoteForDisplay(value)
		}

		table.Append([]string{entry.Index, value})
	}

	table.SetFooter([]string{"Entries", fmt.Sprintf("%d", len(view.Table))})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

// DisplayScript prints a readable script, highlighted when enabled.
func (s *SimpleUI) DisplayScript(_ m.Path, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.highlight {
		return quick.Highlight(s.out(), text, "javascript", "terminal256", highlightStyle)
	}

	_, err := io.WriteString(s.out(), text)

	return err
}

func (s *SimpleUI) out() io.Writer {
	return s.cmd.OutOrStdout()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out(), format, args...)
}

func colorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = colorHeader(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = colorHunk(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = colorAdd(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = colorDel(line)
		}
	}

	return strings.Join(lines, "")
}
