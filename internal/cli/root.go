// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/internal/config"
	"github.com/jeremyhahn/go-shamir/pkg/correlation"
	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/logging"
	"github.com/jeremyhahn/go-shamir/pkg/metrics"
)

// app holds the flags and the resolved state of one invocation
type app struct {
	configFile string
	field      string
	output     string
	verbose    bool

	// rand overrides the randomness source of split; nil uses crypto/rand
	rand io.Reader

	cfg    *config.Config
	logger *logging.Logger
	scheme *secretsharing.Scheme
	root   *cobra.Command
}

func newApp() *app {
	a := &app{logger: logging.Discard()}

	a.root = &cobra.Command{
		Use:   "shamir",
		Short: "Split and restore secrets with Shamir's Secret Sharing",
		Long: `shamir splits a secret into N shares such that any T of them restore
it exactly and fewer reveal nothing about it.

Shares are computed in a large prime field (GF(2^1279 - 1) by default)
and printed as "<index>-<hex>" tokens. A share set is the tokens joined
with commas.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Persistent flags (available to all commands)
	flags := a.root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "",
		"config file (YAML)")
	flags.StringVar(&a.field, "field", field.DefaultName,
		"prime field (m1279, m521, m127, or a 0x-prefixed hex prime)")
	flags.StringVarP(&a.output, "output", "o", config.OutputText,
		"output format (text, json, yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false,
		"verbose output")

	a.root.AddCommand(a.newSplitCommand())
	a.root.AddCommand(a.newRestoreCommand())
	a.root.AddCommand(a.newVerifyCommand())
	a.root.AddCommand(a.newConfigCommand())
	a.root.AddCommand(a.newVersionCommand())

	return a
}

// Execute runs the root command
func Execute() error {
	return newApp().execute(os.Args[1:])
}

func (a *app) execute(args []string) error {
	run := correlation.NewRun("")
	a.root.SetArgs(args)
	err := a.root.ExecuteContext(correlation.WithRun(context.Background(), run))
	if ferr := a.flushMetrics(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		a.logger.Error(err, "error_type", metrics.ErrorType(err))
		_ = a.printer(a.root.ErrOrStderr()).PrintError(err) // best-effort
		return err
	}
	a.logger.Debug("run finished", "duration", run.Elapsed())
	return nil
}

// setup loads the configuration and builds the logger and scheme. Only
// split binds its local flags into the configuration; restore has its own
// --threshold with a different meaning.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.InheritedFlags()
	if cmd.Name() == "split" {
		flags = cmd.Flags()
	}

	cfg, err := config.Load(a.configFile, flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	run := correlation.FromContextOrNew(cmd.Context(), cmd.Name())
	run.Operation = cmd.Name()
	a.logger = logger.With(run.LogAttrs()...)

	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	f, err := cfg.GetField()
	if err != nil {
		return err
	}
	a.scheme, err = secretsharing.NewScheme(&secretsharing.Config{Field: f, Rand: a.rand})
	if err != nil {
		return fmt.Errorf("failed to create scheme: %w", err)
	}

	a.logger.Debug("configuration loaded",
		"config", a.configFile,
		"field", f.Name(),
		"bits", f.BitLen())
	return nil
}

// format returns the effective output format
func (a *app) format() string {
	if a.cfg != nil {
		return a.cfg.Output.Format
	}
	return a.output
}

func (a *app) printer(w io.Writer) *Printer {
	return NewPrinter(a.format(), w)
}

// flushMetrics writes the metrics registry to the configured textfile
func (a *app) flushMetrics() error {
	if a.cfg == nil || !a.cfg.Metrics.Enabled || a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	a.logger.Debug("metrics written", "path", a.cfg.Metrics.Textfile)
	return nil
}
