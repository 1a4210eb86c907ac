package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/unrotate/internal/model"
)

type quitModel struct{}

func (m quitModel) Init() tea.Cmd { return tea.Quit }
func (m quitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
func (m quitModel) View() string { return "" }

func newTestTUI(buf *bytes.Buffer) *TUI {
	tui := NewTUI(buf)
	tui.input = nil

	return tui
}

func TestTUI_StartWithModel_WaitAndClose(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	if err := tui.startWithModel(quitModel{}); err != nil {
		t.Fatalf("startWithModel error = %v", err)
	}

	// send while running should go through program.Send
	tui.send(batchInfoMsg{files: 2, threads: 1})

	waitDone := make(chan struct{})
	go func() {
		tui.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() timed out")
	}

	closeDone := make(chan struct{})
	go func() {
		tui.Close()
		close(closeDone)
	}()

	select {
	case <-closeDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() timed out")
	}
}

func TestTUI_Send_And_EnsureStarted_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	// send before start should be no-op
	tui.send(batchInfoMsg{files: 1})

	// ensureStarted should not re-start when already started
	tui.started = true
	tui.ensureStarted()

	if tui.program != nil {
		t.Fatal("ensureStarted started a program although started was set")
	}
}

func TestTUI_BatchFlow(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	if err := tui.Start(WithBatchMode()); err != nil {
		t.Fatalf("Start error = %v", err)
	}

	tui.DisplayBatchInfo(2, 2)
	tui.DisplayStartingFile("a.js", 0)
	tui.DisplayStartingFile("b.js", 1)
	tui.DisplayCompletedFile(m.Report{
		Origin: "a.js",
		Output: "a.readable.js",
		Diff:   "--- a.js\n+++ a.readable.js\n@@ -1 +1 @@\n-Q(0x1)\n+\"x\"\n",
	})
	tui.DisplayCompletedFile(m.Report{Origin: "b.js", Err: errSentinel})
	tui.DisplaySummary([]m.Report{{Origin: "a.js"}, {Origin: "b.js", Err: errSentinel}})

	tui.Close()
}

func TestTUI_InspectFlow(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	if err := tui.Start(WithInspectMode()); err != nil {
		t.Fatalf("Start error = %v", err)
	}

	if err := tui.DisplayInspection(sampleInspection()); err != nil {
		t.Fatalf("DisplayInspection error = %v", err)
	}

	tui.Close()
}

func TestTUI_DisplayScript_HeldUntilClose(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	if err := tui.startWithModel(quitModel{}); err != nil {
		t.Fatalf("startWithModel error = %v", err)
	}

	if err := tui.DisplayScript("a.js", "console.log(\"Hello\");\n"); err != nil {
		t.Fatalf("DisplayScript error = %v", err)
	}

	tui.Wait()
	tui.Close()

	if !strings.HasSuffix(buf.String(), "console.log(\"Hello\");\n") {
		t.Fatalf("script not flushed on Close, output:\n%q", buf.String())
	}
}

func TestTUI_DisplayScript_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	if err := tui.DisplayScript("a.js", "x;\n"); err != nil {
		t.Fatalf("DisplayScript error = %v", err)
	}

	if buf.String() != "x;\n" {
		t.Fatalf("output = %q, want %q", buf.String(), "x;\n")
	}
}

func TestTUI_MultipleClose(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	tui.Close()
	tui.Close() // Close again should be safe

	tui2 := newTestTUI(&buf)
	tui2.Wait() // Wait without start should be no-op

	tui3 := newTestTUI(&buf)
	tui3.Close() // Close without start should be no-op
}

func TestTUI_DisplayMethods_NoProgram(t *testing.T) {
	var buf bytes.Buffer
	tui := newTestTUI(&buf)

	// Avoid starting Bubble Tea program in tests
	tui.started = true

	tui.DisplayBatchInfo(2, 1)
	tui.DisplayStartingFile("a.js", 0)
	tui.DisplayCompletedFile(m.Report{Origin: "a.js"})
	tui.DisplaySummary(nil)

	if err := tui.DisplayInspection(sampleInspection()); err != nil {
		t.Fatalf("DisplayInspection unexpected error = %v", err)
	}
}

var errSentinel = errors.New("boom")

func sampleInspection() m.Inspection {
	return m.Inspection{
		Origin:  "bundle.js",
		Decoder: "Q",
		Bootstrap: m.BootstrapInfo{
			ArrayProvider:   "A",
			Target:          0x1,
			Decoder:         "Q",
			DecoderAlias:    "un",
			ConvergenceExpr: "(parseInt(un(0x2),36)+0x1)%0x2",
		},
		Offset:    1,
		Rotations: 1,
		Table: m.StringTable{
			{Value: "World"},
			{Value: "Hello"},
			{Value: "!![]", Raw: true},
		},
		Aliases: []string{"Q", "Z"},
	}
}
