package controller

import "testing"

func TestStartOptions(t *testing.T) {
	cfg := &StartConfig{}
	WithInspectMode()(cfg)
	if cfg.mode != ModeInspect {
		t.Fatalf("WithInspectMode() mode = %v, want %v", cfg.mode, ModeInspect)
	}

	WithBatchMode()(cfg)
	if cfg.mode != ModeBatch {
		t.Fatalf("WithBatchMode() mode = %v, want %v", cfg.mode, ModeBatch)
	}
}
