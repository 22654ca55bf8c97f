package gen

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	atlas "ariga.io/atlas/sql/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/load"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
)

func TestNewGenerator(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		_, err := NewGenerator(nil)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("requires target", func(t *testing.T) {
		_, err := NewGenerator(MustNewConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing target")
	})
}

func TestGenerate(t *testing.T) {
	t.Run("writes every artifact", func(t *testing.T) {
		model, ms := shop(t)
		target := t.TempDir()
		var logs bytes.Buffer
		cfg := MustNewConfig(
			WithTarget(target),
			WithMigrationsDir(filepath.Join(target, "sql")),
			WithModelPackage("model"),
			WithSnapshots(),
			WithWorkers(2),
			WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		)
		g, err := NewGenerator(cfg)
		require.NoError(t, err)

		out, err := g.Generate(context.Background(), model, ms...)
		require.NoError(t, err)
		require.NotEmpty(t, out.ID)
		require.Len(t, out.Results, 3)
		assert.Equal(t, []string{"Address", "Bill", "Customer", "Order"}, out.Model.Names())
		assert.Equal(t, []string{
			"202610171200_addaddress.go",
			"202610171300_linkinvoices.go",
			"202610171400_renameinvoice.go",
			"mapping.yaml",
			filepath.Join("model", "address.go"),
			filepath.Join("model", "bill.go"),
			filepath.Join("model", "customer.go"),
			filepath.Join("model", "order.go"),
			filepath.Join("snapshots", "202610171200.msgpack"),
			filepath.Join("snapshots", "202610171300.msgpack"),
			filepath.Join("snapshots", "202610171400.msgpack"),
		}, out.Files)
		for _, f := range out.Files {
			assert.FileExists(t, filepath.Join(target, f))
		}
		assert.Len(t, out.Plans, 6)
		assert.Equal(t, "RevertAddAddress", out.Plans[1].Name)

		dir, err := atlas.NewLocalDir(filepath.Join(target, "sql"))
		require.NoError(t, err)
		files, err := dir.Files()
		require.NoError(t, err)
		assert.Len(t, files, 6)
		assert.FileExists(t, filepath.Join(target, "sql", atlas.HashFileName))

		s, err := load.ReadSnapshot(filepath.Join(target, "snapshots", "202610171400.msgpack"))
		require.NoError(t, err)
		snap, err := s.Model()
		require.NoError(t, err)
		assert.True(t, snap.Equal(out.Model))

		data, err := os.ReadFile(filepath.Join(target, MappingFile))
		require.NoError(t, err)
		mapping, err := migrate.ParseMapping(data)
		require.NoError(t, err)
		_, ok := mapping.Table("Bill")
		assert.True(t, ok)

		assert.Contains(t, logs.String(), "pass="+out.ID)
		assert.Contains(t, logs.String(), "migration compiled")
		assert.Contains(t, logs.String(), "generation finished")
	})

	t.Run("writes nothing on failure", func(t *testing.T) {
		model, ms := shop(t)
		target := filepath.Join(t.TempDir(), "out")
		g, err := NewGenerator(MustNewConfig(WithTarget(target)))
		require.NoError(t, err)

		// RenameInvoice before LinkInvoices leaves no Invoice class to link.
		_, err = g.Generate(context.Background(), model, ms[0], ms[2], ms[1])
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), "compile")
		assert.Contains(t, err.Error(), "202610171300")
		_, err = os.Stat(target)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("writes nothing when a file fails to format", func(t *testing.T) {
		model, ms := shop(t)
		model = change.NewModel(append(model.Classes(), &schema.ClassModel{
			Name:        "Zeta",
			PrimaryKeys: []string{"Id"},
			Properties: []schema.Property{
				&schema.PrimitiveProperty{PropertyBase: schema.PropertyBase{Name: "Id", Type: "map["}},
			},
		})...)
		target := filepath.Join(t.TempDir(), "out")
		g, err := NewGenerator(MustNewConfig(
			WithTarget(target),
			WithMigrationsDir(filepath.Join(target, "sql")),
			WithModelPackage("model"),
			WithWorkers(1),
		))
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), model, ms...)
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), filepath.Join("model", "zeta.go"))

		var written []string
		require.NoError(t, filepath.WalkDir(target, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(target, p)
			written = append(written, rel)
			return err
		}))
		assert.Equal(t, []string{filepath.Join("model", "zeta.go.error")}, written)
	})
}
