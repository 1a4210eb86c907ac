package adapter

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/unrotate/internal/model"
)

func TestFormatterArgs(t *testing.T) {
	args := FormatterArgs(m.DefaultFormatOptions())

	assert.Equal(t, []string{
		"js-beautify", "--type", "js",
		"--indent-size", "2",
		"--max-preserve-newlines", "2",
		"--wrap-line-length", "120",
		"-",
	}, args)

	custom := m.FormatOptions{Enabled: true, Command: []string{"prettier", "--parser", "babel"}}
	assert.Equal(t, custom.Command, FormatterArgs(custom))
}

func TestCommandFormatter_Disabled(t *testing.T) {
	f := &CommandFormatter{lookPath: func(string) (string, error) {
		t.Fatal("formatter must not be resolved when disabled")
		return "", nil
	}}

	out, err := f.Format(context.Background(), "var a=1;", m.FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "var a=1;", out)
}

func TestCommandFormatter_Unavailable(t *testing.T) {
	f := &CommandFormatter{lookPath: func(string) (string, error) {
		return "", exec.ErrNotFound
	}}

	_, err := f.Format(context.Background(), "var a=1;", m.DefaultFormatOptions())
	assert.ErrorIs(t, err, ErrFormatterUnavailable)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestCommandFormatter_PipesThroughCommand(t *testing.T) {
	if _, err := exec.LookPath("tr"); err != nil {
		t.Skip("tr not available")
	}

	f := NewCommandFormatter()
	opts := m.FormatOptions{Enabled: true, Command: []string{"tr", "a-z", "A-Z"}}

	out, err := f.Format(context.Background(), "var a=1;", opts)
	require.NoError(t, err)
	assert.Equal(t, "VAR A=1;\n", out)
}

func TestCommandFormatter_CommandFails(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	f := NewCommandFormatter()

	_, err := f.Format(context.Background(), "var a=1;", m.FormatOptions{Enabled: true, Command: []string{"false"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run false")
}
