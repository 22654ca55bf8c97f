package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	atlas "ariga.io/atlas/sql/migrate"
	"github.com/spf13/cobra"

	"github.com/syssam/evolve/compiler/gen"
	"github.com/syssam/evolve/dialect/sql"
	"github.com/syssam/evolve/transform"
)

type applyOptions struct {
	down   bool
	to     string
	dryRun bool
}

func newApplyCmd(a *app) *cobra.Command {
	var opts applyOptions
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Execute the SQL plans of the script",
		Long: `apply executes the up plans of every migration in order, or those up to
and including --to. With --down it executes the revert plans, newest first,
of the last migration or of every migration after --to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.plans(opts)
			if err != nil {
				return err
			}
			if opts.dryRun {
				return printPlans(cmd.OutOrStdout(), plans)
			}
			return a.apply(cmd.Context(), cmd.OutOrStdout(), plans)
		},
	}
	cmd.Flags().BoolVar(&opts.down, "down", false, "execute revert plans")
	cmd.Flags().StringVar(&opts.to, "to", "", "migration id to stop at")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the statements instead of executing them")
	return cmd
}

// plans compiles the script and selects the plans to execute.
func (a *app) plans(opts applyOptions) ([]*atlas.Plan, error) {
	model, ms, err := a.script()
	if err != nil {
		return nil, err
	}
	var ups, downs []*atlas.Plan
	var ids []string
	for _, m := range ms {
		res, err := transform.Compile(m, model, transform.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		ps, err := gen.Plans(res)
		if err != nil {
			return nil, err
		}
		ups, downs = append(ups, ps[0]), append(downs, ps[1])
		ids = append(ids, res.ID)
		model = res.Up.Model
	}
	end := len(ids)
	if opts.to != "" {
		i := slices.Index(ids, opts.to)
		if i < 0 {
			return nil, fmt.Errorf("unknown migration %q", opts.to)
		}
		end = i + 1
	}
	if !opts.down {
		return ups[:end], nil
	}
	start := end
	if opts.to == "" {
		start = max(end-1, 0)
	}
	selected := slices.Clone(downs[start:])
	slices.Reverse(selected)
	return selected, nil
}

func (a *app) apply(ctx context.Context, w io.Writer, plans []*atlas.Plan) error {
	db := a.cfg.Database
	if db.Driver == "" || db.DSN == "" {
		return errors.New("database driver and dsn are required, set them in the config or through " + envDialect + " and " + envDSN)
	}
	drv, err := sql.Open(db.Driver, db.DSN)
	if err != nil {
		return err
	}
	defer drv.Close()

	var statsOpts []sql.StatsOption
	if db.SlowThreshold > 0 {
		statsOpts = append(statsOpts, sql.WithSlowThreshold(db.SlowThreshold))
	}
	stats := sql.NewStatsDriver(drv, append(statsOpts, sql.WithStatsLogger(a.logger))...)
	err = sql.NewExecutor(stats, sql.WithExecLogger(a.logger)).Apply(ctx, plans...)
	a.logger.Info("apply finished", "plans", len(plans), "stats", stats.Stats().Snapshot().String())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "applied %d plans\n", len(plans))
	return nil
}

func printPlans(w io.Writer, plans []*atlas.Plan) error {
	for _, p := range plans {
		if _, err := fmt.Fprintf(w, "-- %s %s\n", p.Version, p.Name); err != nil {
			return err
		}
		for _, c := range p.Changes {
			if c.Comment != "" {
				fmt.Fprintf(w, "-- %s\n", c.Comment)
			}
			fmt.Fprintf(w, "%s;\n", c.Cmd)
		}
	}
	return nil
}
