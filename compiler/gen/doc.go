// Package gen turns compiled migrations into artifacts.
//
// A generation pass compiles every migration against the model the previous
// one produced and writes, under the target directory:
//
//	<id>_<name>.go          generated model migration (Up, Down, Mapping)
//	mapping.yaml            table mapping of the final model
//	snapshots/<id>.msgpack  model after each migration (WithSnapshots)
//	<model package>/*.go    class declarations of the final model (WithModelPackage)
//
// With WithMigrationsDir, the SQL plans of every migration and its revert are
// also written to an atlas migration directory along with its sum file.
//
// # Usage
//
//	cfg, err := gen.NewConfig(
//		gen.WithTarget("./migrations"),
//		gen.WithMigrationsDir("./migrations/sql"),
//	)
//	if err != nil {
//		return err
//	}
//	g, err := gen.NewGenerator(cfg)
//	if err != nil {
//		return err
//	}
//	out, err := g.Generate(ctx, model, migrations...)
//
// The pass is all-or-nothing with respect to compilation: no file is
// written unless every migration compiles. Files are written in parallel
// (see WithWorkers) and Go files are formatted with goimports; a file that
// fails to format is left next to its target with an ".error" suffix.
package gen
