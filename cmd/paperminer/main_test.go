package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/paperminer/pkg/metadata"
)

func TestRunMissingInputWritesEmptyRecord(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"--input", filepath.Join(out, "missing.pdf"),
		"--output", out,
		"--techniques", filepath.Join(out, "none.xls"),
		"--samples", filepath.Join(out, "none.xls"),
		"--log-level", "error",
	})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(stdout.String(), "Title  >  \n"))

	record, err := metadata.ReadTSV(filepath.Join(out, metadata.OutputName))
	require.NoError(t, err)
	assert.Equal(t, metadata.Record{}, record)
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"--output", "."}},
		{"bad tolerance", []string{"--input", "a.pdf", "--tolerance", "1.5"}},
		{"bad policy", []string{"--input", "a.pdf", "--match", "best"}},
		{"bad workers", []string{"--input", "a.pdf", "--workers", "0"}},
		{"positional args", []string{"--input", "a.pdf", "b.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			assert.Error(t, cmd.Execute())
		})
	}
}
