package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	path := project(t, "script: shop.yaml\n")
	a := &app{cfgPath: path}
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	a.cfg = cfg
	a.logger = newLogger(os.Stderr, "error", "text")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, 50*time.Millisecond, func() { runs.Add(1) })
	}()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0o644))
	data, err := os.ReadFile(cfg.Script)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.Script, []byte(strings.ReplaceAll(string(data), "Bill", "Receipt")), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}
