package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/unrotate/internal/controller"
	"github.com/mouse-blink/unrotate/internal/domain"
	domainmocks "github.com/mouse-blink/unrotate/internal/domain/mocks"
	m "github.com/mouse-blink/unrotate/internal/model"
)

// withMockWorkflow swaps the workflow factory for a mock and records the UI
// each command picked.
func withMockWorkflow(t *testing.T) (*domainmocks.MockWorkflow, *controller.UI) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	var picked controller.UI

	original := newWorkflow
	newWorkflow = func(ui controller.UI) domain.Workflow {
		picked = ui

		return mockWorkflow
	}

	t.Cleanup(func() { newWorkflow = original })

	return mockWorkflow, &picked
}

func executeRoot(args ...string) (string, error) {
	var buf bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return buf.String(), err
}

func TestRootCmd_Deobfuscate(t *testing.T) {
	mockWorkflow, picked := withMockWorkflow(t)

	mockWorkflow.EXPECT().Deobfuscate(mock.Anything, mock.MatchedBy(func(args domain.DeobfuscateArgs) bool {
		return len(args.Paths) == 2 &&
			args.Paths[0] == m.Path("dist/...") &&
			args.Paths[1] == m.Path("lib/app.js") &&
			args.Threads == 4 &&
			args.Diff &&
			!args.Stdout &&
			args.Suffix == m.DefaultOutputSuffix &&
			args.Output == "" &&
			len(args.Exclude) == 2 && args.Exclude[0] == `\.min\.js$` && args.Exclude[1] == "vendor" &&
			args.Format.Enabled &&
			args.Format.IndentSize == 2 &&
			args.Format.MaxPreserveNewlines == 2 &&
			args.Format.WrapLineLength == 120 &&
			len(args.Format.Command) == 0
	})).Return(nil).Once()

	_, err := executeRoot("-p", "4", "--diff", "-x", `\.min\.js$`, "-x", "vendor", "dist/...", "lib/app.js")

	require.NoError(t, err)
	assert.IsType(t, &controller.SimpleUI{}, *picked, "a buffer is not a terminal")
}

func TestRootCmd_FormatterFlags(t *testing.T) {
	mockWorkflow, _ := withMockWorkflow(t)

	mockWorkflow.EXPECT().Deobfuscate(mock.Anything, mock.MatchedBy(func(args domain.DeobfuscateArgs) bool {
		return !args.Format.Enabled &&
			args.Format.IndentSize == 4 &&
			args.Format.WrapLineLength == 0 &&
			args.Format.MaxPreserveNewlines == 1 &&
			slices.Equal(args.Format.Command, []string{"npx", "prettier", "--parser", "babel"}) &&
			args.Output == "out.js" &&
			args.Suffix == ".clean.js" &&
			args.Decoder == "_0x1f0c"
	})).Return(nil).Once()

	_, err := executeRoot(
		"--no-format", "--indent", "4", "--wrap", "0", "--max-newlines", "1",
		"--formatter", "npx prettier --parser babel", "-o", "out.js", "--suffix", ".clean.js",
		"--decoder", "_0x1f0c", "app.js",
	)

	require.NoError(t, err)
}

func TestRootCmd_Watch(t *testing.T) {
	mockWorkflow, picked := withMockWorkflow(t)

	mockWorkflow.EXPECT().Watch(mock.Anything, mock.MatchedBy(func(args domain.DeobfuscateArgs) bool {
		return len(args.Paths) == 1 && args.Paths[0] == "dist/"
	})).Return(nil).Once()

	_, err := executeRoot("--watch", "dist/")

	require.NoError(t, err)
	assert.IsType(t, &controller.SimpleUI{}, *picked)
}

func TestRootCmd_Stdout(t *testing.T) {
	mockWorkflow, picked := withMockWorkflow(t)

	mockWorkflow.EXPECT().Deobfuscate(mock.Anything, mock.MatchedBy(func(args domain.DeobfuscateArgs) bool {
		return args.Stdout
	})).Return(nil).Once()

	_, err := executeRoot("--stdout", "app.js")

	require.NoError(t, err)
	assert.IsType(t, &controller.SimpleUI{}, *picked)
}

func TestRootCmd_WatchAndStdoutConflict(t *testing.T) {
	withMockWorkflow(t)

	_, err := executeRoot("--watch", "--stdout", "app.js")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch")
}

func TestRootCmd_RequiresPath(t *testing.T) {
	withMockWorkflow(t)

	_, err := executeRoot()

	require.Error(t, err)
}

func TestRootCmd_PropagatesWorkflowError(t *testing.T) {
	mockWorkflow, _ := withMockWorkflow(t)

	mockWorkflow.EXPECT().Deobfuscate(mock.Anything, mock.Anything).Return(domain.ErrNoScripts).Once()

	_, err := executeRoot("empty/")

	assert.ErrorIs(t, err, domain.ErrNoScripts)
}

func TestInspectCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"table", []string{"inspect", "app.js"}},
		{"json", []string{"inspect", "-f", "json", "app.js"}},
		{"yaml with decoder", []string{"inspect", "--format", "yaml", "--decoder", "Q", "app.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow, picked := withMockWorkflow(t)

			mockWorkflow.EXPECT().Inspect(mock.MatchedBy(func(args domain.InspectArgs) bool {
				return args.Path == "app.js"
			})).Return(nil).Once()

			_, err := executeRoot(tt.args...)

			require.NoError(t, err)
			assert.IsType(t, &controller.SimpleUI{}, *picked)
		})
	}
}

func TestInspectCmd_PassesDecoder(t *testing.T) {
	mockWorkflow, _ := withMockWorkflow(t)

	mockWorkflow.EXPECT().Inspect(domain.InspectArgs{Path: "app.js", Decoder: "Q"}).Return(nil).Once()

	_, err := executeRoot("inspect", "--decoder", "Q", "app.js")

	require.NoError(t, err)
}

func TestInspectCmd_UnknownFormat(t *testing.T) {
	withMockWorkflow(t)

	_, err := executeRoot("inspect", "-f", "xml", "app.js")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestInspectCmd_RequiresOneScript(t *testing.T) {
	withMockWorkflow(t)

	_, err := executeRoot("inspect", "a.js", "b.js")

	require.Error(t, err)
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "unrotate [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Example)

	for _, name := range []string{
		"output", "suffix", "parallel", "exclude", "diff", "stdout", "watch",
		"no-format", "formatter", "indent", "wrap", "max-newlines",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s", name)
	}

	for _, name := range []string{"config", "verbose", "no-color", "decoder"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing persistent --%s", name)
	}

	inspect, _, err := cmd.Find([]string{"inspect"})
	require.NoError(t, err)
	assert.Equal(t, "inspect", inspect.Name())
}

func TestInitConfig(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""

		viper.Reset()
	})

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("parallel: 3\nwrap: 80\n"), 0o644))
	t.Setenv("UNROTATE_SUFFIX", ".clean.js")

	mockWorkflow, _ := withMockWorkflow(t)

	mockWorkflow.EXPECT().Deobfuscate(mock.Anything, mock.MatchedBy(func(args domain.DeobfuscateArgs) bool {
		return args.Threads == 3 && args.Format.WrapLineLength == 80 && args.Suffix == ".clean.js"
	})).Return(nil).Once()

	_, err := executeRoot("--config", cfg, "app.js")

	require.NoError(t, err)
	assert.Equal(t, cfg, viper.ConfigFileUsed())
}

func TestParsePaths(t *testing.T) {
	assert.Equal(t, []m.Path{"a.js", "dist/..."}, parsePaths([]string{"a.js", "dist/..."}))
	assert.Empty(t, parsePaths(nil))
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() { rootCmd = originalRootCmd }()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})
	mockCmd.SetArgs([]string{})

	rootCmd = mockCmd

	// Execute should not exit when the command succeeds.
	Execute()
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		rootCmd = &cobra.Command{
			Use: "test",
			RunE: func(_ *cobra.Command, _ []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")

				return errors.New("command failed")
			},
		}
		rootCmd.SetArgs([]string{})

		Execute() // os.Exit(1)

		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.True(t, strings.Contains(string(output), "command failed"), "output: %s", output)
}
