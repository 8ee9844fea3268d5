// Package backend reports which optional quantisation backends the model
// runtime can import. Availability is probed once at start-up and then only
// read; absence changes the error a quantisation request gets, never the
// shape of a successful result.
package backend

import (
	"sort"
	"strings"
)

// Backend names, as used in config overrides and reports.
const (
	BitsAndBytes = "bitsandbytes"
	AutoGPTQ     = "auto-gptq"
	Optimum      = "optimum"
	AutoAWQ      = "autoawq"
	CUDA         = "cuda"
)

// Availability is a snapshot of which optional backends are importable.
type Availability struct {
	BitsAndBytes bool `json:"bitsandbytes"`
	AutoGPTQ     bool `json:"auto_gptq"`
	// Optimum is only true when optimum ships GPTQ support.
	Optimum bool `json:"optimum"`
	AutoAWQ bool `json:"autoawq"`
	CUDA    bool `json:"cuda"`
}

// Backend describes how a python backend is detected.
type Backend struct {
	Name string
	// Module is imported to test availability.
	Module string
}

// Python lists the python backends in probe order.
var Python = []Backend{
	{Name: BitsAndBytes, Module: "bitsandbytes"},
	{Name: AutoGPTQ, Module: "auto_gptq"},
	{Name: Optimum, Module: "optimum.gptq"},
	{Name: AutoAWQ, Module: "awq"},
}

// Get returns the flag for a backend name.
func (a Availability) Get(name string) (bool, bool) {
	switch strings.ToLower(name) {
	case BitsAndBytes:
		return a.BitsAndBytes, true
	case AutoGPTQ:
		return a.AutoGPTQ, true
	case Optimum:
		return a.Optimum, true
	case AutoAWQ:
		return a.AutoAWQ, true
	case CUDA:
		return a.CUDA, true
	}
	return false, false
}

// With returns a copy with the named backend set. Unknown names are ignored.
func (a Availability) With(name string, ok bool) Availability {
	switch strings.ToLower(name) {
	case BitsAndBytes:
		a.BitsAndBytes = ok
	case AutoGPTQ:
		a.AutoGPTQ = ok
	case Optimum:
		a.Optimum = ok
	case AutoAWQ:
		a.AutoAWQ = ok
	case CUDA:
		a.CUDA = ok
	}
	return a
}

// Apply returns a copy with every entry of force applied, and the names in
// force that are not backends.
func (a Availability) Apply(force map[string]bool) (Availability, []string) {
	var unknown []string
	for name, ok := range force {
		if _, known := a.Get(name); !known {
			unknown = append(unknown, name)
			continue
		}
		a = a.With(name, ok)
	}
	sort.Strings(unknown)
	return a, unknown
}

// All returns an Availability with every backend present.
func All() Availability {
	return Availability{BitsAndBytes: true, AutoGPTQ: true, Optimum: true, AutoAWQ: true, CUDA: true}
}
