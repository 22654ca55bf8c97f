package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/evolve/compiler/gen"
	"github.com/syssam/evolve/transform"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Compile the script and write the generated migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}
			printOutput(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (a *app) generate(ctx context.Context) (*gen.Output, error) {
	model, ms, err := a.script()
	if err != nil {
		return nil, err
	}
	opts := append(a.cfg.options(),
		gen.WithLogger(a.logger),
		gen.WithTransformOptions(transform.WithLogger(a.logger)),
	)
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g, err := gen.NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, model, ms...)
}

func printOutput(w io.Writer, out *gen.Output) {
	for _, res := range out.Results {
		fmt.Fprintf(w, "%s %s: %d up, %d down operations", res.ID, res.Name, len(res.Up.Operations()), len(res.Down.Operations()))
		if n := len(res.Dropped); n > 0 {
			fmt.Fprintf(w, " (%d without inverse)", n)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d files, %d plans\n", len(out.Files), len(out.Plans))
}
