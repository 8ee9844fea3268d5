package errs

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Field: "quantise", Msg: "unknown mode \"x\"", Accepted: []string{"int8", "int4"}}
	want := "quantise: unknown mode \"x\" (accepted: ['int8', 'int4'])"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", Validation("f", "bad %d", 1), IsValidation},
		{"missing", MissingDependency("awq", "", "autoawq"), IsMissingDependency},
		{"contract", ContractViolation("empty"), IsContractViolation},
		{"notfound", NotFound("model family", "x"), IsNotFound},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("outer: %w", c.err)
		if !c.is(c.err) || !c.is(wrapped) {
			t.Fatalf("%s: predicate did not match", c.name)
		}
		if IsValidation(c.err) && c.name != "validation" {
			t.Fatalf("%s: matched validation predicate", c.name)
		}
	}
}

func TestMissingDependency_NamesEveryPackage(t *testing.T) {
	err := MissingDependency("quantize=\"gptq\"", "pip install x", "auto-gptq", "optimum>=0.12")
	msg := err.Error()
	for _, want := range []string{"'auto-gptq'", "'optimum>=0.12'", " and ", "pip install x"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}
