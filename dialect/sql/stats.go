package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/evolve/dialect"
)

// ExecStats holds statement execution statistics.
type ExecStats struct {
	// Statements is the number of executed statements.
	Statements atomic.Int64
	// Duration is the total execution time in nanoseconds.
	Duration atomic.Int64
	// Slow is the number of statements exceeding the slow threshold.
	Slow atomic.Int64
	// Errors is the number of failed statements.
	Errors atomic.Int64
}

// Snapshot returns a point-in-time copy of the statistics.
func (s *ExecStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Statements: s.Statements.Load(),
		Duration:   time.Duration(s.Duration.Load()),
		Slow:       s.Slow.Load(),
		Errors:     s.Errors.Load(),
	}
}

// StatsSnapshot is a point-in-time snapshot of ExecStats.
type StatsSnapshot struct {
	Statements int64
	Duration   time.Duration
	Slow       int64
	Errors     int64
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("statements=%d duration=%s slow=%d errors=%d", s.Statements, s.Duration, s.Slow, s.Errors)
}

// StatsDriver wraps a driver with execution statistics and slow statement
// logging.
type StatsDriver struct {
	dialect.Driver
	stats         *ExecStats
	slowThreshold time.Duration
	logger        *slog.Logger
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 1s.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithStatsLogger sets the logger slow statements are reported to. The
// default is slog.Default().
func WithStatsLogger(l *slog.Logger) StatsOption {
	return func(s *StatsDriver) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStatsDriver wraps drv with statistics collection.
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &ExecStats{},
		slowThreshold: time.Second,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the collected statistics.
func (d *StatsDriver) Stats() *ExecStats { return d.stats }

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, start, err)
	return err
}

// Tx starts a transaction that also records statistics.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

func (d *StatsDriver) record(ctx context.Context, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	d.stats.Statements.Add(1)
	d.stats.Duration.Add(int64(elapsed))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if elapsed > d.slowThreshold {
		d.stats.Slow.Add(1)
		d.logger.WarnContext(ctx, "slow statement", "duration", elapsed, "statement", query)
	}
}

// StatsTx wraps a transaction with statistics collection.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Exec executes a statement within the transaction and records statistics.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.driver.record(ctx, query, start, err)
	return err
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
)
