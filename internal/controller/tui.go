package controller

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	input  io.Reader

	mu      sync.Mutex
	program *tea.Program
	started bool
	done    chan struct{}
	scripts []scriptMsg
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output, input: os.Stdin}
}

// Start launches the Bubble Tea program for the requested mode.
func (t *TUI) Start(options ...StartOption) error {
	cfg := &StartConfig{mode: ModeBatch}
	for _, opt := range options {
		opt(cfg)
	}

	var model tea.Model

	switch cfg.mode {
	case ModeInspect:
		model = newInspectModel()
	default:
		model = newBatchModel()
	}

	return t.startWithModel(model, tea.WithMouseCellMotion())
}

func (t *TUI) startWithModel(model tea.Model, opts ...tea.ProgramOption) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	opts = append([]tea.ProgramOption{tea.WithOutput(t.output), tea.WithInput(t.input)}, opts...)

	t.program = tea.NewProgram(model, opts...)
	t.done = make(chan struct{})
	t.started = true

	go func(p *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := p.Run(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "ui error: %v\n", err)
		}
	}(t.program, t.done)

	return nil
}

// ensureStarted starts the batch view when a display method is called first.
func (t *TUI) ensureStarted() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if started {
		return
	}

	_ = t.Start()
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()

	if p == nil {
		return
	}

	p.Send(msg)
}

// Wait blocks until the user leaves the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	<-done
}

// Close stops the program and prints any scripts held back while it ran.
func (t *TUI) Close() {
	t.mu.Lock()
	p, done := t.program, t.done
	t.program, t.done = nil, nil
	scripts := t.scripts
	t.scripts = nil
	t.mu.Unlock()

	if p != nil {
		p.Quit()
		<-done
	}

	for _, script := range scripts {
		_, _ = io.WriteString(t.output, script.text)
	}
}

// DisplayBatchInfo shows how many scripts will be processed.
func (t *TUI) DisplayBatchInfo(files int, threads int) {
	t.ensureStarted()
	t.send(batchInfoMsg{files: files, threads: threads})
}

// DisplayStartingFile shows which worker picked up a script.
func (t *TUI) DisplayStartingFile(path m.Path, threadID int) {
	t.ensureStarted()
	t.send(startFileMsg{path: string(path), thread: threadID})
}

// DisplayCompletedFile adds a script outcome to the results list.
func (t *TUI) DisplayCompletedFile(report m.Report) {
	t.ensureStarted()
	t.send(completedFileMsg{result: newFileResult(report)})
}

// DisplaySummary switches the view to the browsable results list.
func (t *TUI) DisplaySummary(reports []m.Report) {
	t.ensureStarted()
	t.send(summaryMsg{total: len(reports)})
}

// DisplayInspection renders the converged string table browser.
func (t *TUI) DisplayInspection(insp m.Inspection) error {
	t.send(inspectionMsg{view: newInspectionView(insp)})

	return nil
}

// DisplayScript holds the script back until the program exits so it does not
// interleave with the interface.
func (t *TUI) DisplayScript(path m.Path, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		_, err := io.WriteString(t.output, text)

		return err
	}

	t.scripts = append(t.scripts, scriptMsg{path: string(path), text: text})

	return nil
}
