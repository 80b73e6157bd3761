// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package testrunner counts assertions about solver output and prints a summary.
package testrunner

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

// Failure describes a failed assertion.
type Failure struct {
	Message  string
	Expected any
	Actual   any
	Diff     string // Empty for boolean assertions
}

// Styles is the styling of the summary.
type Styles struct {
	Passed   lipgloss.Style
	Failed   lipgloss.Style
	Label    lipgloss.Style
	Expected lipgloss.Style
	Actual   lipgloss.Style
}

// DefaultStyles returns the coloured summary styles.
func DefaultStyles() Styles {
	return Styles{
		Passed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		Expected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Actual: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Passed: s, Failed: s, Label: s, Expected: s, Actual: s}
}

// Runner records the outcome of assertions.
type Runner struct {
	Styles   Styles
	passed   int
	failures []Failure
}

// New returns a Runner with the default styles.
func New() *Runner {
	return &Runner{Styles: DefaultStyles()}
}

// AssertEqual records whether expected and actual are equal.
func (r *Runner) AssertEqual(expected, actual any, msg string) bool {
	if equal(expected, actual) {
		r.passed++
		return true
	}

	r.failures = append(r.failures, Failure{
		Message:  msg,
		Expected: expected,
		Actual:   actual,
		Diff:     diff(expected, actual),
	})

	return false
}

// AssertTrue records whether cond holds.
func (r *Runner) AssertTrue(cond bool, msg string) bool {
	return r.assertBool(true, cond, msg)
}

// AssertFalse records whether cond does not hold.
func (r *Runner) AssertFalse(cond bool, msg string) bool {
	return r.assertBool(false, cond, msg)
}

func (r *Runner) assertBool(want, got bool, msg string) bool {
	if want == got {
		r.passed++
		return true
	}

	r.failures = append(r.failures, Failure{Message: msg, Expected: want, Actual: got})

	return false
}

// Passed returns the number of passed assertions.
func (r *Runner) Passed() int {
	return r.passed
}

// Failed returns the number of failed assertions.
func (r *Runner) Failed() int {
	return len(r.failures)
}

// Total returns the number of assertions made.
func (r *Runner) Total() int {
	return r.passed + len(r.failures)
}

// HasFailures reports whether any assertion failed.
func (r *Runner) HasFailures() bool {
	return len(r.failures) > 0
}

// Failures returns the failed assertions in the order they were made.
func (r *Runner) Failures() []Failure {
	return append([]Failure(nil), r.failures...)
}

// Print writes the summary followed by the details of every failure.
func (r *Runner) Print(w io.Writer) error {
	var sb strings.Builder

	if !r.HasFailures() {
		sb.WriteString(r.Styles.Passed.Render(
			fmt.Sprintf("✓ All tests passed! (%d/%d)", r.passed, r.Total())))
		sb.WriteString("\n")

		_, err := io.WriteString(w, sb.String())

		return err
	}

	sb.WriteString(r.Styles.Failed.Render(
		fmt.Sprintf("✗ %d test(s) failed! (%d/%d passed)", r.Failed(), r.passed, r.Total())))
	sb.WriteString("\n")

	for i, f := range r.failures {
		fmt.Fprintf(&sb, "\n%s %s\n", r.Styles.Label.Render(fmt.Sprintf("Failure %d:", i+1)), f.Message)
		fmt.Fprintf(&sb, "  Expected: %s\n", r.Styles.Expected.Render(Format(f.Expected)))
		fmt.Fprintf(&sb, "  Actual:   %s\n", r.Styles.Actual.Render(Format(f.Actual)))

		if f.Diff != "" {
			fmt.Fprintf(&sb, "  Diff (-expected +actual):\n%s", indent(f.Diff, "    "))
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// Format renders a value the way the summary prints it: JSON for collections and
// structs, null for nil and plain text otherwise.
func Format(v any) string {
	if v == nil {
		return "null"
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// equal compares with go-cmp. Values cmp cannot handle, such as structs with
// unexported fields, are never equal.
func equal(a, b any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	return cmp.Equal(a, b)
}

func diff(a, b any) (d string) {
	defer func() {
		if recover() != nil {
			d = ""
		}
	}()

	return cmp.Diff(a, b)
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")

	var sb strings.Builder

	for _, l := range lines {
		if l == "" {
			continue
		}

		sb.WriteString(prefix)
		sb.WriteString(l)
	}

	if !strings.HasSuffix(s, "\n") {
		sb.WriteString("\n")
	}

	return sb.String()
}
