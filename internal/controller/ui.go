// Package controller provides output adapters for displaying deobfuscation results.
package controller

import (
	m "github.com/mouse-blink/unrotate/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeBatch StartMode = iota
	ModeInspect
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithBatchMode sets the UI to batch deobfuscation mode.
func WithBatchMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeBatch
	}
}

// WithInspectMode sets the UI to inspection mode.
func WithInspectMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeInspect
	}
}

// UI defines the interface for displaying deobfuscation progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayBatchInfo(files int, threads int)
	DisplayStartingFile(path m.Path, threadID int)
	DisplayCompletedFile(report m.Report)
	DisplaySummary(reports []m.Report)
	DisplayInspection(insp m.Inspection) error
	DisplayScript(path m.Path, text string) error
}
