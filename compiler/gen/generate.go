package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	atlas "ariga.io/atlas/sql/migrate"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/load"
	"github.com/syssam/evolve/dialect/sql"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/transform"
)

// MappingFile is the name of the mapping artifact of the final model.
const MappingFile = "mapping.yaml"

// SnapshotDir is the sub-directory of the target snapshots are written to.
const SnapshotDir = "snapshots"

// Output is the result of a generation pass.
type Output struct {
	// ID identifies the pass in logs.
	ID string
	// Results holds the compiled migrations in order.
	Results []*transform.Result
	// Model is the model after the last migration.
	Model *change.Model
	// Files lists the written paths relative to the target, sorted.
	Files []string
	// Plans holds the up and down plan of every migration, in order.
	Plans []*atlas.Plan
}

// Generator runs generation passes.
type Generator struct {
	cfg *Config
}

// NewGenerator returns a generator for cfg.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	return &Generator{cfg: cfg}, nil
}

// Generate compiles ms in order against model, each migration starting from
// the model the previous one produced, and writes the artifacts of the
// pass. Nothing is written unless every migration compiles.
func (g *Generator) Generate(ctx context.Context, model *change.Model, ms ...transform.Migration) (*Output, error) {
	out := &Output{ID: uuid.NewString(), Model: model}
	logger := g.cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("pass", out.ID)
	logger.Info("generation started", "migrations", len(ms), "target", g.cfg.Target)

	var files []File
	for _, m := range ms {
		res, err := transform.Compile(m, out.Model, g.cfg.Transform...)
		if err != nil {
			return nil, NewGenerationError("compile", m.ID(), "", "", err)
		}
		if len(res.Dropped) > 0 {
			logger.Warn("down pass is partial", "migration", res.ID, "dropped", len(res.Dropped))
		}
		if logger.Enabled(ctx, slog.LevelDebug) {
			logger.Debug("migration compiled", "migration", res.ID, "up", spew.Sdump(res.Up.Operations()), "down", spew.Sdump(res.Down.Operations()))
		}
		mf, err := g.cfg.MigrationFile(res)
		if err != nil {
			return nil, NewGenerationError("migration", res.ID, "", "", err)
		}
		files = append(files, File{Path: MigrationFileName(res), Code: mf})
		if g.cfg.MigrationsDir != "" {
			plans, err := Plans(res)
			if err != nil {
				return nil, NewGenerationError("plan", res.ID, "", "", err)
			}
			out.Plans = append(out.Plans, plans...)
		}
		if g.cfg.Snapshots {
			data, err := load.MarshalSnapshot(load.NewSnapshot(res.ID, res.Up.Model))
			if err != nil {
				return nil, NewGenerationError("snapshot", res.ID, "", "", err)
			}
			files = append(files, File{Path: path.Join(SnapshotDir, res.ID+".msgpack"), Data: data})
		}
		out.Results = append(out.Results, res)
		out.Model = res.Up.Model
	}

	mapping, err := migrate.FromModel(out.Model, out.Model.Names()...)
	if err != nil {
		return nil, NewGenerationError("mapping", "", MappingFile, "", err)
	}
	if err := migrate.ValidateMapping(mapping).Err(); err != nil {
		return nil, NewGenerationError("mapping", "", MappingFile, "invalid mapping", err)
	}
	data, err := mapping.Marshal()
	if err != nil {
		return nil, NewGenerationError("mapping", "", MappingFile, "", err)
	}
	files = append(files, File{Path: MappingFile, Data: data})

	if g.cfg.ModelPackage != "" {
		for name, f := range g.cfg.ClassFiles(out.Model) {
			files = append(files, File{Path: path.Join(g.cfg.ModelPackage, name), Code: f})
		}
	}

	w := NewWriter(g.cfg.Target).WithWorkers(g.cfg.Workers)
	if err := w.Write(ctx, files...); err != nil {
		return nil, err
	}
	for _, f := range files {
		out.Files = append(out.Files, f.Path)
	}
	slices.Sort(out.Files)

	if len(out.Plans) > 0 {
		if err := writePlans(g.cfg.MigrationsDir, out.Plans); err != nil {
			return nil, NewGenerationError("plan", "", g.cfg.MigrationsDir, "", err)
		}
	}
	metrics := w.Metrics()
	logger.Info("generation finished",
		"files", metrics.FilesGenerated,
		"bytes", metrics.TotalBytes,
		"plans", len(out.Plans),
		"format_time", metrics.FormatTime,
	)
	return out, nil
}

// MigrationFileName returns the file name of the generated migration of res.
func MigrationFileName(res *transform.Result) string {
	return fmt.Sprintf("%s_%s.go", res.ID, strings.ToLower(res.Name))
}

// Plans returns the up and the down plan of res. The down plan shares the
// version of the up plan and is named after RevertName.
func Plans(res *transform.Result) ([]*atlas.Plan, error) {
	up, err := sql.Plan(res.ID, res.Name, res.Up.Operations())
	if err != nil {
		return nil, err
	}
	down, err := sql.Plan(res.ID, transform.RevertName(res.Name), res.Down.Operations())
	if err != nil {
		return nil, err
	}
	return []*atlas.Plan{up, down}, nil
}

func writePlans(dir string, plans []*atlas.Plan) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	d, err := atlas.NewLocalDir(dir)
	if err != nil {
		return err
	}
	return sql.WriteDir(d, plans...)
}
