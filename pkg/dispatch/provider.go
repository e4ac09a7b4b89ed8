// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type (
	// Provider is one interned way of obtaining function addresses: an
	// API version or an extension, with the run-time condition that
	// detects it and the loader expression that fetches symbols from it.
	// Providers are shared; two bindings with the same label always point
	// at the same Provider.
	Provider struct {
		// Label is the human-readable name printed in resolution
		// failure diagnostics, e.g. "Desktop OpenGL 3.2" or
		// "GL_ARB_vertex_array_object".
		Label string

		// Condition is the C expression that is true when the
		// provider is available in the current context.
		Condition string

		// Loader is the C expression template that loads an entry
		// point, with "{0}" standing for the quoted entry name.
		Loader string

		// Ident is the enum-safe identifier derived from Label.
		Ident string
	}

	// Binding attaches one provider to one function, remembering the
	// entry point name to load from it. Entry usually equals the
	// function's own name; it differs when the binding was contributed
	// by an alias sibling.
	Binding struct {
		Label     string
		Condition string
		Loader    string
		Entry     string

		provider *Provider
	}

	// Interner is the canonical provider table. Interning the same label
	// twice with differing condition or loader text is a registry
	// consistency fault and fails immediately.
	Interner struct {
		providers map[string]*Provider
	}
)

// ErrProviderConflict reports a label interned with two different
// condition or loader expressions.
var ErrProviderConflict = errors.New("provider conflict")

// ProviderConflictError carries both sides of a provider conflict.
type ProviderConflictError struct {
	Label    string
	Field    string
	Existing string
	Conflict string
}

func (e *ProviderConflictError) Error() string {
	return fmt.Sprintf("provider %q interned with conflicting %s: %q vs %q",
		e.Label, e.Field, e.Existing, e.Conflict)
}

func (e *ProviderConflictError) Unwrap() error {
	return ErrProviderConflict
}

var identReplacer = strings.NewReplacer(" ", "_", `\"`, "", ".", "_")

// providerIdent derives the enum identifier for a label.
func providerIdent(label string) string {
	return "PROVIDER_" + identReplacer.Replace(label)
}

// NewInterner returns an empty provider table.
func NewInterner() *Interner {
	return &Interner{providers: make(map[string]*Provider)}
}

// Intern returns the canonical provider for label, creating it on first
// use. A label seen before must carry byte-identical condition and loader
// text.
func (in *Interner) Intern(label, condition, loader string) (*Provider, error) {
	if p, ok := in.providers[label]; ok {
		if p.Condition != condition {
			return nil, &ProviderConflictError{
				Label:    label,
				Field:    "condition",
				Existing: p.Condition,
				Conflict: condition,
			}
		}
		if p.Loader != loader {
			return nil, &ProviderConflictError{
				Label:    label,
				Field:    "loader",
				Existing: p.Loader,
				Conflict: loader,
			}
		}
		return p, nil
	}
	p := &Provider{
		Label:     label,
		Condition: condition,
		Loader:    loader,
		Ident:     providerIdent(label),
	}
	in.providers[label] = p
	return p, nil
}

// Lookup finds an already interned provider.
func (in *Interner) Lookup(label string) (*Provider, bool) {
	p, ok := in.providers[label]
	return p, ok
}

// Len counts interned providers.
func (in *Interner) Len() int {
	return len(in.providers)
}

// Providers returns the interned providers ordered by label.
func (in *Interner) Providers() []*Provider {
	out := make([]*Provider, 0, len(in.providers))
	for _, p := range in.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// ExpandLoader substitutes a C expression for the entry-point name into
// the loader template.
func (p *Provider) ExpandLoader(entryExpr string) string {
	return strings.ReplaceAll(p.Loader, "{0}", entryExpr)
}

// AddBinding attaches a provider binding to f. A second binding with the
// same label replaces the earlier one in place, so version bumps during
// feature iteration keep their original position.
func (f *Function) AddBinding(label, condition, loader, entry string) {
	b := Binding{Label: label, Condition: condition, Loader: loader, Entry: entry}
	if i, ok := f.byLabel[label]; ok {
		f.bindings[i] = b
		return
	}
	f.byLabel[label] = len(f.bindings)
	f.bindings = append(f.bindings, b)
}

// ClearBindings discards every binding on f. Bootstrap fixups use this to
// replace a function's providers wholesale.
func (f *Function) ClearBindings() {
	f.bindings = nil
	f.byLabel = make(map[string]int)
}

// Bindings returns f's bindings in attachment order.
func (f *Function) Bindings() []Binding {
	return f.bindings
}

// Provider returns the canonical provider for b, nil before interning.
func (b Binding) Provider() *Provider {
	return b.provider
}

// InternProviders canonicalizes every binding in the model through in.
// Functions are visited in name order so conflict reports are stable.
func (m *Model) InternProviders(in *Interner) error {
	for _, f := range m.SortedFunctions() {
		for i := range f.bindings {
			b := &f.bindings[i]
			p, err := in.Intern(b.Label, b.Condition, b.Loader)
			if err != nil {
				return fmt.Errorf("function %s: %w", f.Name, err)
			}
			b.provider = p
		}
	}
	return nil
}
