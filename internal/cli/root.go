// Package cli builds the modelcfg command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelcfg/internal/backend"
	"modelcfg/internal/config"
	"modelcfg/internal/registry"
	"modelcfg/internal/service"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg config.Config
	log zerolog.Logger
	out io.Writer
	err io.Writer
}

// NewRootCmd constructs the command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut}
	root := &cobra.Command{
		Use:           "modelcfg",
		Short:         "Model family descriptors, prompt formatting and quantisation config selection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (defaults "+config.EnvLogLevel+" or info)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup()
	}

	root.AddCommand(
		a.serveCmd(),
		a.modelsCmd(),
		a.promptCmd(),
		a.quantiseCmd(),
		a.tokenCmd(),
		a.backendsCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func (a *app) setup() error {
	var cfg config.Config
	if a.configPath != "" {
		c, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg = cfg.ApplyEnv()
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg.WithDefaults()
	if a.noColor {
		color.NoColor = true
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(a.cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.err, TimeFormat: time.Kitchen, NoColor: color.NoColor}).
		Level(lvl).With().Timestamp().Logger()
	return nil
}

// newService builds a Service from the loaded config. Backends are probed
// only when probe is set; otherwise only backends.force applies.
func (a *app) newService(ctx context.Context, probe bool) (*service.Service, error) {
	reg, err := registry.WithDir(a.cfg.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("load model families: %w", err)
	}
	var rep backend.Report
	if probe {
		timeout, err := a.cfg.ProbeTimeoutDuration()
		if err != nil {
			return nil, err
		}
		rep = backend.Probe(ctx, backend.ProbeConfig{Python: a.cfg.Python, Timeout: timeout, Logger: a.log})
	}
	return service.New(service.Options{
		Registry:      reg,
		Probe:         rep,
		Force:         a.cfg.Backends.Force,
		DefaultFamily: a.cfg.DefaultFamily,
		Logger:        a.log,
	})
}

// parseKV turns key=value arguments into an override map. Values stay strings;
// decoding is weakly typed downstream.
func parseKV(args []string) (map[string]any, error) {
	kw := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		kw[k] = v
	}
	return kw, nil
}

// splitCSV splits a comma separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
