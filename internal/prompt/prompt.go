// Package prompt formats instruction templates that use {name} placeholders.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"modelcfg/internal/errs"
)

// InstructionVar is the placeholder every default template carries.
const InstructionVar = "instruction"

// tokenPattern matches escaped braces and {name} placeholders.
var tokenPattern = regexp.MustCompile(`\{\{|\}\}|\{(\w*)\}`)

// Variables returns the placeholder names in tpl in order of first appearance.
func Variables(tpl string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range tokenPattern.FindAllStringSubmatch(tpl, -1) {
		if m[0] == "{{" || m[0] == "}}" || m[1] == "" {
			continue
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Format substitutes vars into tpl. A placeholder without a value is an error.
func Format(tpl string, vars map[string]string) (string, error) {
	var missing []string
	var positional bool
	out := tokenPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		switch match {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		name := match[1 : len(match)-1]
		if name == "" {
			positional = true
			return match
		}
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return match
	})
	if positional {
		return "", errs.Validation("template", "positional placeholders are not supported")
	}
	if len(missing) > 0 {
		return "", errs.ValidationError{
			Field:    "template",
			Msg:      fmt.Sprintf("missing variable %q in the prompt template; disable the default template to pass the prompt through", missing[0]),
			Accepted: Variables(tpl),
		}
	}
	return out, nil
}

// Process renders instruction into tpl when useTemplate is set and returns it
// unchanged otherwise. Only extra values named by the template are used; the
// instruction itself must not be passed through extra.
func Process(instruction, tpl string, useTemplate bool, extra map[string]any) (string, error) {
	if !useTemplate {
		return instruction, nil
	}
	if tpl == "" {
		return "", errs.Validation("template", "template must be set when the default prompt template is requested")
	}
	if _, ok := extra[InstructionVar]; ok {
		return "", errs.Validation(InstructionVar, "pass the instruction as the prompt, not as a keyword override")
	}
	vars := map[string]string{InstructionVar: instruction}
	for _, name := range Variables(tpl) {
		if name == InstructionVar {
			continue
		}
		if v, ok := extra[name]; ok {
			vars[name] = fmt.Sprint(v)
		}
	}
	return Format(tpl, vars)
}

// Lines is a small helper for building multi-line templates.
func Lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
