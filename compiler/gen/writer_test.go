package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	t.Run("writes code and data", func(t *testing.T) {
		dir := t.TempDir()
		code := jen.NewFile("model")
		code.Type().Id("Customer").Struct(jen.Id("Created").Qual("time", "Time"))

		w := NewWriter(dir).WithWorkers(2)
		err := w.Write(context.Background(),
			File{Path: filepath.Join("model", "customer.go"), Code: code},
			File{Path: "mapping.yaml", Data: []byte("tables: []\n")},
		)
		require.NoError(t, err)

		src, err := os.ReadFile(filepath.Join(dir, "model", "customer.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), `import "time"`)
		assert.Contains(t, string(src), "Created time.Time")
		data, err := os.ReadFile(filepath.Join(dir, "mapping.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "tables: []\n", string(data))

		m := w.Metrics()
		assert.Equal(t, 2, m.FilesGenerated)
		assert.Equal(t, int64(len(src)+len(data)), m.TotalBytes)
	})

	t.Run("formats go data", func(t *testing.T) {
		dir := t.TempDir()
		err := NewWriter(dir).Write(context.Background(), File{
			Path: "x.go",
			Data: []byte("package x\nfunc F() string { return fmt.Sprint(1) }\n"),
		})
		require.NoError(t, err)
		src, err := os.ReadFile(filepath.Join(dir, "x.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), `import "fmt"`)
	})

	t.Run("keeps unformatted file", func(t *testing.T) {
		dir := t.TempDir()
		bad := []byte("package x\nfunc (\n")
		err := NewWriter(dir).Write(context.Background(), File{Path: "bad.go", Data: bad})
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), "bad.go")

		_, err = os.Stat(filepath.Join(dir, "bad.go"))
		assert.True(t, os.IsNotExist(err))
		data, err := os.ReadFile(filepath.Join(dir, "bad.go.error"))
		require.NoError(t, err)
		assert.Equal(t, bad, data)
	})

	t.Run("keeps unformatted code", func(t *testing.T) {
		dir := t.TempDir()
		code := jen.NewFile("model")
		code.Type().Id("Zeta").Struct(jen.Id("Id").Id("map["))
		err := NewWriter(dir).Write(context.Background(), File{Path: "zeta.go", Code: code})
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))

		_, err = os.Stat(filepath.Join(dir, "zeta.go"))
		assert.True(t, os.IsNotExist(err))
		data, err := os.ReadFile(filepath.Join(dir, "zeta.go.error"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "Id map[")
	})

	t.Run("writes nothing unless every file formats", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		err := NewWriter(dir).WithWorkers(1).Write(context.Background(),
			File{Path: "mapping.yaml", Data: []byte("tables: []\n")},
			File{Path: "good.go", Data: []byte("package x\n")},
			File{Path: "bad.go", Data: []byte("package x\nfunc (\n")},
		)
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "bad.go.error", entries[0].Name())
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewWriter(t.TempDir()).Write(ctx, File{Path: "a.txt", Data: []byte("a")})
		require.ErrorIs(t, err, context.Canceled)
	})
}
