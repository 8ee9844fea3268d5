// Package service ties the registry, the quantisation selector and the probed
// backend availability together behind the operations the HTTP API and the
// CLI expose. A Service holds only immutable inputs plus atomic counters, so
// one value can serve every request concurrently.
package service

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"modelcfg/internal/backend"
	"modelcfg/internal/errs"
	"modelcfg/internal/modelconfig"
	"modelcfg/internal/registry"
)

// Options configures New.
type Options struct {
	Registry *registry.Registry
	// Probe is the start-up backend probe result.
	Probe backend.Report
	// Force pins backend availability regardless of Probe.
	Force map[string]bool
	// DefaultFamily is used when a request names no family or model id.
	// Empty means dolly-v2.
	DefaultFamily string
	Logger        zerolog.Logger
}

// Service implements the model configuration operations.
type Service struct {
	reg           *registry.Registry
	defaultFamily string
	avail         backend.Availability
	probe         backend.Report
	forced        map[string]bool
	log           zerolog.Logger
	started       time.Time

	prompts     atomic.Uint64
	postprocess atomic.Uint64
	quantise    atomic.Uint64
	failures    atomic.Uint64
	lastErr     atomic.Pointer[string]
}

// New validates opts and builds a Service.
func New(opts Options) (*Service, error) {
	if opts.Registry == nil {
		opts.Registry = registry.Builtin()
	}
	if opts.DefaultFamily == "" {
		opts.DefaultFamily = modelconfig.DollyV2().Name
	}
	if _, err := opts.Registry.Lookup(opts.DefaultFamily); err != nil {
		return nil, errs.ValidationError{Field: "default_family", Msg: "unknown model family " + opts.DefaultFamily, Accepted: opts.Registry.Names()}
	}
	avail, unknown := opts.Probe.Avail.Apply(opts.Force)
	if len(unknown) > 0 {
		opts.Logger.Warn().Strs("names", unknown).Msg("ignoring unknown backends in backends.force")
	}
	forced := make(map[string]bool, len(opts.Force))
	for name := range opts.Force {
		if _, ok := avail.Get(name); ok {
			forced[name] = true
		}
	}
	s := &Service{
		reg:           opts.Registry,
		defaultFamily: opts.DefaultFamily,
		avail:         avail,
		probe:         opts.Probe,
		forced:        forced,
		log:           opts.Logger,
		started:       time.Now(),
	}
	s.log.Info().
		Int("families", s.reg.Len()).
		Str("default_family", s.defaultFamily).
		Msg("model configuration service ready")
	return s, nil
}

// Ready reports whether the service can answer requests. It only turns false
// if the registry lost its default family, which New rules out.
func (s *Service) Ready() bool {
	_, err := s.reg.Lookup(s.defaultFamily)
	return err == nil
}

// DefaultFamily returns the family used when a request names none.
func (s *Service) DefaultFamily() string { return s.defaultFamily }

// Availability returns the effective backend availability.
func (s *Service) Availability() backend.Availability { return s.avail }

// Registry returns the underlying registry.
func (s *Service) Registry() *registry.Registry { return s.reg }

func (s *Service) fail(op string, err error) error {
	s.failures.Add(1)
	msg := op + ": " + err.Error()
	s.lastErr.Store(&msg)
	s.log.Debug().Str("op", op).Err(err).Msg("operation failed")
	return err
}
