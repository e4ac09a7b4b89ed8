// SPDX-License-Identifier: MIT

package dispatch

import "sort"

type (
	// Candidate is one (provider, entry point) pair a resolver will try.
	Candidate struct {
		Provider *Provider
		Entry    string
	}

	// Plan is the complete, ordered resolution strategy for one
	// function. Candidate order is the order the emitted resolver
	// probes providers in, and the order failure diagnostics list them.
	Plan struct {
		Function   *Function
		Candidates []Candidate

		// Single marks the one-candidate fast path: exactly one
		// provider, loading the function's own name, so the emitted
		// resolver needs no loop and no entry-name indirection.
		Single bool
	}

	// NearAliasFunc reports the semantically-compatible partner of a
	// function name, for pairs the registry never declares as aliases.
	NearAliasFunc func(name string) (string, bool)
)

// PlanFor computes the resolution plan for f. Candidates are gathered from
// f's whole alias group plus its near-alias partner, then ordered so that
// direct bindings of f's own name come first, ties broken by provider
// label and then provider identifier. Call after ResolveAliases and
// InternProviders.
func (m *Model) PlanFor(f *Function, nearAlias NearAliasFunc) Plan {
	root := m.Root(f)
	var cands []Candidate
	collect := func(fn *Function) {
		for _, b := range fn.bindings {
			cands = append(cands, Candidate{Provider: b.provider, Entry: b.Entry})
		}
	}
	collect(root)
	for _, dep := range m.Dependents(root) {
		collect(dep)
	}
	if nearAlias != nil {
		if partner, ok := nearAlias(f.Name); ok {
			if pf, ok := m.Lookup(partner); ok {
				collect(pf)
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		aOwn, bOwn := a.Entry == f.Name, b.Entry == f.Name
		if aOwn != bOwn {
			return aOwn
		}
		if a.Provider.Label != b.Provider.Label {
			return a.Provider.Label < b.Provider.Label
		}
		return a.Provider.Ident < b.Provider.Ident
	})
	return Plan{
		Function:   f,
		Candidates: cands,
		Single:     len(cands) == 1 && cands[0].Entry == f.Name,
	}
}

// Plans computes plans for every live function, ordered by name.
func (m *Model) Plans(nearAlias NearAliasFunc) []Plan {
	funcs := m.SortedFunctions()
	plans := make([]Plan, len(funcs))
	for i, f := range funcs {
		plans[i] = m.PlanFor(f, nearAlias)
	}
	return plans
}
