package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// File is one artifact of a generation pass. Code takes precedence over
// Data.
type File struct {
	// Path is relative to the output directory.
	Path string
	// Code is Go source, formatted with goimports before it is written.
	Code *jen.File
	// Data is written as is, unless Path names a Go file.
	Data []byte
}

// Writer writes generated files with parallel execution.
type Writer struct {
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// NewWriter creates a writer for outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a copy of the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write renders and formats all files in parallel, then writes them. Nothing
// but debug files is written unless every file renders and formats.
func (w *Writer) Write(ctx context.Context, files ...File) error {
	out := make([][]byte, len(files))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, f := range files {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := w.format(f)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Ensure output directory exists
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	eg = new(errgroup.Group)
	eg.SetLimit(w.workers)
	for i, f := range files {
		eg.Go(func() error {
			return w.writeFile(f.Path, out[i])
		})
	}
	return eg.Wait()
}

// format renders and formats a single file in memory.
func (w *Writer) format(f File) ([]byte, error) {
	fullPath := filepath.Join(w.outDir, f.Path)
	data := f.Data

	// 1. Render the jennifer file, leaving formatting to goimports so that
	// unformattable source reaches the debug file
	if f.Code != nil {
		var buf bytes.Buffer
		f.Code.NoFormat = true
		if err := f.Code.Render(&buf); err != nil {
			return nil, NewGenerationError("write", "", f.Path, "render", err)
		}
		data = buf.Bytes()
	}

	// 2. Format Go sources using goimports (resolves imports jennifer cannot
	// see, such as package-qualified property types)
	if f.Code != nil || filepath.Ext(f.Path) == ".go" {
		start := time.Now()
		formatted, err := imports.Process(fullPath, data, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, data, 0o644)
			return nil, NewGenerationError("write", "", f.Path, "format (unformatted written to "+debugPath+")", err)
		}
		w.addFormatTime(time.Since(start))
		data = formatted
	}
	return data, nil
}

// writeFile writes a single prepared file.
func (w *Writer) writeFile(name string, data []byte) error {
	fullPath := filepath.Join(w.outDir, name)
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	// Update metrics
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(data))
	w.metrics.WriteTime += time.Since(start)
	w.mu.Unlock()

	return nil
}

func (w *Writer) addFormatTime(d time.Duration) {
	w.mu.Lock()
	w.metrics.FormatTime += d
	w.mu.Unlock()
}
