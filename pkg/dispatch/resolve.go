// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// Address is a resolved entry point address. Zero means unresolved;
	// real loaders never hand back a zero address for a present symbol.
	Address uintptr

	// Env is the run-time side of resolution: it evaluates provider
	// conditions against the current context and loads entry points.
	Env interface {
		// Eval reports whether the provider condition holds for the
		// labeled provider. Extension providers share one condition
		// text with the extension name bound per check, so the label
		// is what discriminates them. Eval is only consulted until
		// the first success; conditions after the chosen candidate
		// are never evaluated.
		Eval(condition, label string) bool

		// Load fetches entry through the provider's loader. Called
		// exactly once per resolution, for the chosen candidate only.
		Load(loader, entry string) Address
	}

	// FailureHook substitutes an address when no provider matched,
	// letting embedders install their own missing-function behavior
	// instead of the default hard failure.
	FailureHook func(name string) Address
)

// ErrResolutionFailed reports that no provider condition held.
var ErrResolutionFailed = errors.New("resolution failed")

// ResolutionError lists, in probe order, the providers that could have
// satisfied the function.
type ResolutionError struct {
	Name   string
	Labels []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no provider of %s found, requires one of: %s",
		e.Name, strings.Join(e.Labels, ", "))
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolutionFailed
}

// Diagnostic renders the multi-line failure report the generated code
// prints before aborting.
func (e *ResolutionError) Diagnostic() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "No provider of %s found.  Requires one of:\n", e.Name)
	for _, l := range e.Labels {
		fmt.Fprintf(&sb, "    %s\n", l)
	}
	return sb.String()
}

// Resolve walks the plan's candidates in order and returns the address of
// the first one whose provider condition holds. When every condition is
// false the failure hook, if any, supplies the address; otherwise a
// ResolutionError names the providers that were tried.
func (p *Plan) Resolve(env Env, hook FailureHook) (Address, error) {
	for _, c := range p.Candidates {
		if env.Eval(c.Provider.Condition, c.Provider.Label) {
			return env.Load(c.Provider.Loader, c.Entry), nil
		}
	}
	if hook != nil {
		return hook(p.Function.Name), nil
	}
	labels := make([]string, len(p.Candidates))
	for i, c := range p.Candidates {
		labels[i] = c.Provider.Label
	}
	return 0, &ResolutionError{Name: p.Function.Name, Labels: labels}
}
