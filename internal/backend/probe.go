package backend

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"modelcfg/internal/common/fsutil"
)

const defaultProbeTimeout = 10 * time.Second

// ProbeConfig controls Probe. Zero values pick defaults.
type ProbeConfig struct {
	// Python is the interpreter the model runtime uses; discovered on PATH when empty.
	Python string
	// NvidiaSMI is used to detect a GPU; discovered on PATH when empty.
	NvidiaSMI string
	// Timeout bounds each individual import check.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Status is one line of a probe report.
type Status struct {
	Name      string `json:"name"`
	Module    string `json:"module,omitempty"`
	Available bool   `json:"available"`
}

// Report describes a probe run.
type Report struct {
	Python   string       `json:"python,omitempty"`
	Backends []Status     `json:"backends"`
	Avail    Availability `json:"availability"`
	Error    string       `json:"error,omitempty"`
}

// Probe checks each python backend by importing it with the runtime's
// interpreter and checks for a GPU. It never fails: anything that cannot be
// checked is reported unavailable.
func Probe(ctx context.Context, cfg ProbeConfig) Report {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProbeTimeout
	}
	log := cfg.Logger
	var r Report

	py, err := fsutil.FindExecutable(cfg.Python, "python3", "python")
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		r.Error = "python interpreter not found"
		log.Warn().Msg("backend probe: python interpreter not found; python backends unavailable")
	case err != nil:
		r.Error = "python interpreter unusable: " + err.Error()
		log.Warn().Str("python", cfg.Python).Err(err).Msg("backend probe: python interpreter unusable")
	}
	r.Python = py

	for _, b := range Python {
		ok := false
		if py != "" {
			ok = run(ctx, cfg.Timeout, py, "-c", "import "+b.Module) == nil
		}
		log.Debug().Str("backend", b.Name).Str("module", b.Module).Bool("available", ok).Msg("backend probe")
		r.Avail = r.Avail.With(b.Name, ok)
		r.Backends = append(r.Backends, Status{Name: b.Name, Module: b.Module, Available: ok})
	}

	r.Avail.CUDA = probeGPU(ctx, cfg)
	r.Backends = append(r.Backends, Status{Name: CUDA, Available: r.Avail.CUDA})
	log.Info().
		Bool(BitsAndBytes, r.Avail.BitsAndBytes).
		Bool(AutoGPTQ, r.Avail.AutoGPTQ).
		Bool(Optimum, r.Avail.Optimum).
		Bool(AutoAWQ, r.Avail.AutoAWQ).
		Bool(CUDA, r.Avail.CUDA).
		Msg("backend probe complete")
	return r
}

// ReportFor builds a report for a fixed availability (no probing).
func ReportFor(a Availability) Report {
	r := Report{Avail: a}
	for _, b := range Python {
		ok, _ := a.Get(b.Name)
		r.Backends = append(r.Backends, Status{Name: b.Name, Module: b.Module, Available: ok})
	}
	r.Backends = append(r.Backends, Status{Name: CUDA, Available: a.CUDA})
	return r
}

func probeGPU(ctx context.Context, cfg ProbeConfig) bool {
	bin, err := fsutil.FindExecutable(cfg.NvidiaSMI, "nvidia-smi")
	if err != nil {
		return false
	}
	return run(ctx, cfg.Timeout, bin, "-L") == nil
}

// run executes a command with output discarded and reports its exit status.
func run(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	return cmd.Run()
}
