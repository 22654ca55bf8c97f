package sql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	atlas "ariga.io/atlas/sql/migrate"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/dialect"
)

// Executor applies migration plans through a driver.
type Executor struct {
	drv    dialect.Driver
	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecLogger sets the logger of the executor. The default discards
// every record.
func WithExecLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor returns an Executor over drv.
func NewExecutor(drv dialect.Driver, opts ...ExecutorOption) *Executor {
	e := &Executor{drv: drv, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply executes the changes of each plan in order. A transactional plan
// runs in its own transaction, which is rolled back on the first failing
// statement. The remaining plans are not executed after a failure.
func (e *Executor) Apply(ctx context.Context, plans ...*atlas.Plan) error {
	for _, p := range plans {
		e.logger.Info("applying plan", "version", p.Version, "name", p.Name, "changes", len(p.Changes))
		var err error
		if p.Transactional {
			err = e.applyTx(ctx, p)
		} else {
			err = e.exec(ctx, e.drv, p)
		}
		if err != nil {
			return fmt.Errorf("dialect/sql: plan %s: %w", p.Name, err)
		}
	}
	return nil
}

func (e *Executor) applyTx(ctx context.Context, p *atlas.Plan) error {
	tx, err := e.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := e.exec(ctx, tx, p); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, &evolve.RollbackError{Err: rerr})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (e *Executor) exec(ctx context.Context, ex dialect.ExecQuerier, p *atlas.Plan) error {
	for i, c := range p.Changes {
		e.logger.Debug("executing statement", "plan", p.Name, "index", i, "comment", c.Comment, "statement", c.Cmd)
		if err := ex.Exec(ctx, c.Cmd, c.Args, nil); err != nil {
			return fmt.Errorf("statement #%d: %w", i, err)
		}
	}
	return nil
}
