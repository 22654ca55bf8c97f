package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// project writes a config and the shop script into a temp dir and returns
// the config path.
func project(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	script, err := os.ReadFile(filepath.Join("..", "..", "compiler", "load", "testdata", "shop.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.yaml"), script, 0o644))
	path := filepath.Join(dir, "evolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path
}

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.Execute()
	return stdout.String(), err
}
