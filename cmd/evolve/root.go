package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/load"
	"github.com/syssam/evolve/transform"
)

// app holds the state shared by the subcommands.
type app struct {
	cfgPath   string
	envFile   string
	logLevel  string
	logFormat string

	cfg    *Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Compile model transformations into code and schema migrations",
		Long: `evolve reads a transformation script describing a class model and the
migrations applied to it. It generates a Go model migration per migration,
SQL plans in an atlas migration directory, and applies those plans.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "evolve.yaml", "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the config")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	cmd.AddCommand(
		newGenerateCmd(a),
		newApplyCmd(a),
		newWatchCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}
	cfg, err := LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if a.logger.Enabled(cmd.Context(), slog.LevelDebug) {
		a.logger.Debug("config loaded", "path", a.cfgPath, "config", spew.Sdump(cfg))
	}
	return nil
}

// script reads the configured script and returns its model and compiled
// migrations.
func (a *app) script() (*change.Model, []transform.Migration, error) {
	s, err := load.ReadScript(a.cfg.Script)
	if err != nil {
		return nil, nil, err
	}
	model, err := s.ChangeModel()
	if err != nil {
		return nil, nil, err
	}
	ms, err := s.Compile()
	if err != nil {
		return nil, nil, err
	}
	return model, ms, nil
}
