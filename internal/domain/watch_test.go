package domain

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/unrotate/internal/adapter"
	adaptermocks "github.com/mouse-blink/unrotate/internal/adapter/mocks"
	controllermocks "github.com/mouse-blink/unrotate/internal/controller/mocks"
	m "github.com/mouse-blink/unrotate/internal/model"
)

func TestWatchScope_Matches(t *testing.T) {
	scope := &watchScope{
		files:   map[string]struct{}{"/src/single.js": {}},
		dirs:    map[string]struct{}{"/dist": {}},
		suffix:  m.DefaultOutputSuffix,
		output:  "/dist/custom-out.js",
		exclude: excludeFilter{regexp.MustCompile(`\.min\.js$`)},
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to script in watched dir", fsnotify.Event{Name: "/dist/app.js", Op: fsnotify.Write}, true},
		{"created module script", fsnotify.Event{Name: "/dist/app.mjs", Op: fsnotify.Create}, true},
		{"commonjs extension is case insensitive", fsnotify.Event{Name: "/dist/APP.CJS", Op: fsnotify.Write}, true},
		{"explicit file root", fsnotify.Event{Name: "/src/single.js", Op: fsnotify.Write}, true},
		{"sibling of file root", fsnotify.Event{Name: "/src/other.js", Op: fsnotify.Write}, false},
		{"readable output", fsnotify.Event{Name: "/dist/app.readable.js", Op: fsnotify.Create}, false},
		{"explicit output path", fsnotify.Event{Name: "/dist/custom-out.js", Op: fsnotify.Write}, false},
		{"temp file from atomic write", fsnotify.Event{Name: "/dist/.app.readable.js.123.tmp", Op: fsnotify.Create}, false},
		{"excluded", fsnotify.Event{Name: "/dist/app.min.js", Op: fsnotify.Write}, false},
		{"non script", fsnotify.Event{Name: "/dist/app.css", Op: fsnotify.Write}, false},
		{"unwatched dir", fsnotify.Event{Name: "/elsewhere/app.js", Op: fsnotify.Write}, false},
		{"remove", fsnotify.Event{Name: "/dist/app.js", Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: "/dist/app.js", Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scope.matches(tt.event))
		})
	}
}

func TestWatchScope_WatchDirs(t *testing.T) {
	scope := &watchScope{
		files: map[string]struct{}{"/src/a.js": {}, "/src/b.js": {}},
		dirs:  map[string]struct{}{"/dist": {}, "/src": {}},
	}

	assert.ElementsMatch(t, []string{"/dist", "/src"}, scope.watchDirs())
}

func TestWorkflow_Watch_OutputNeedsSingleInput(t *testing.T) {
	wm := newWorkflowMocks(t)

	err := wm.workflow(nil).Watch(context.Background(), DeobfuscateArgs{
		Paths:  []m.Path{"a.js", "b.js"},
		Output: "out.js",
	})

	assert.ErrorIs(t, err, ErrOutputNeedsSingleInput)
}

func TestWorkflow_Watch_RerunsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("watch test relies on filesystem notifications")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "bundle.js")
	require.NoError(t, os.WriteFile(script, []byte(readExample(t, "basic")), 0o644))

	formatter := adaptermocks.NewMockFormatter(t)
	formatter.EXPECT().Format(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(passthroughFormatter)

	ui := controllermocks.NewMockUI(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var runs []m.Report

	ui.EXPECT().DisplayCompletedFile(mock.Anything).Run(func(r m.Report) {
		runs = append(runs, r)

		if len(runs) == 1 {
			edited := readExample(t, "basic") + "\nconsole.log(Q(0x1));\n"
			assert.NoError(t, os.WriteFile(script, []byte(edited), 0o644))

			return
		}

		cancel()
	}).Return()

	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), formatter, ui, nil)

	err := wf.Watch(ctx, DeobfuscateArgs{Paths: []m.Path{m.Path(dir)}})

	require.NoError(t, err)
	require.Len(t, runs, 2, "the edit should trigger exactly one rerun")

	out, err := os.ReadFile(filepath.Join(dir, "bundle.readable.js"))
	require.NoError(t, err)
	assert.Contains(t, string(out), basicRewrite)
	assert.Contains(t, string(out), `console.log("World");`)
}
