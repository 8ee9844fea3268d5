// Package errs defines the error kinds shared by the descriptor, prompt and
// quantisation packages. Callers test for a kind with the IsX helpers so that
// wrapped errors still match; the HTTP layer maps each kind to a status code.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError signals malformed or unsupported input.
type ValidationError struct {
	Field    string
	Msg      string
	Accepted []string
}

func (e ValidationError) Error() string {
	var sb strings.Builder
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	if len(e.Accepted) > 0 {
		sb.WriteString(" (accepted: ")
		sb.WriteString(quoteList(e.Accepted))
		sb.WriteString(")")
	}
	return sb.String()
}

// Validation constructs a ValidationError with a formatted message.
func Validation(field, format string, a ...any) error {
	return ValidationError{Field: field, Msg: fmt.Sprintf(format, a...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// MissingDependencyError signals that an optional backend library is not
// installed or failed to import.
type MissingDependencyError struct {
	Feature  string
	Packages []string
	Hint     string
}

func (e MissingDependencyError) Error() string {
	msg := fmt.Sprintf("%s requires %s to be installed (missing or failed to import)", e.Feature, joinPackages(e.Packages))
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// MissingDependency constructs a MissingDependencyError.
func MissingDependency(feature, hint string, packages ...string) error {
	return MissingDependencyError{Feature: feature, Packages: packages, Hint: hint}
}

// IsMissingDependency reports whether err is (or wraps) a MissingDependencyError.
func IsMissingDependency(err error) bool {
	var m MissingDependencyError
	return errors.As(err, &m)
}

// ContractViolationError signals that a caller handed over data of the wrong
// shape. It is never recovered from.
type ContractViolationError struct{ Msg string }

func (e ContractViolationError) Error() string { return "contract violation: " + e.Msg }

// ContractViolation constructs a ContractViolationError.
func ContractViolation(format string, a ...any) error {
	return ContractViolationError{Msg: fmt.Sprintf(format, a...)}
}

// IsContractViolation reports whether err is (or wraps) a ContractViolationError.
func IsContractViolation(err error) bool {
	var c ContractViolationError
	return errors.As(err, &c)
}

// NotFoundError signals an unknown model family or model id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string { return e.Kind + " not found: " + e.ID }

// NotFound constructs a NotFoundError.
func NotFound(kind, id string) error { return NotFoundError{Kind: kind, ID: id} }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var n NotFoundError
	return errors.As(err, &n)
}

func quoteList(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = "'" + s + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}

func joinPackages(pkgs []string) string {
	q := make([]string, len(pkgs))
	for i, p := range pkgs {
		q[i] = "'" + p + "'"
	}
	switch len(q) {
	case 0:
		return "an optional dependency"
	case 1:
		return q[0]
	default:
		return strings.Join(q[:len(q)-1], ", ") + " and " + q[len(q)-1]
	}
}
