// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"testing"
)

func newTestModel(t *testing.T, fns ...*Function) *Model {
	t.Helper()
	m := NewModel()
	for _, f := range fns {
		if err := m.Add(f); err != nil {
			t.Fatalf("Add(%s): %v", f.Name, err)
		}
	}
	return m
}

func TestResolveAliasesFlattensChains(t *testing.T) {
	t.Parallel()

	m := newTestModel(t,
		NewFunction("glRoot", "void", nil, ""),
		NewFunction("glMid", "void", nil, "glRoot"),
		NewFunction("glLeaf", "void", nil, "glMid"),
		NewFunction("glLoner", "void", nil, ""),
	)
	if err := m.ResolveAliases(); err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}

	root, _ := m.Lookup("glRoot")
	for _, name := range []string{"glRoot", "glMid", "glLeaf"} {
		f, _ := m.Lookup(name)
		if got := m.Root(f); got != root {
			t.Errorf("Root(%s) = %s, want glRoot", name, got.Name)
		}
		if f.AliasName != "glRoot" {
			t.Errorf("%s.AliasName = %q, want glRoot", name, f.AliasName)
		}
	}

	deps := m.Dependents(root)
	if len(deps) != 2 {
		t.Fatalf("len(Dependents) = %d, want 2", len(deps))
	}

	loner, _ := m.Lookup("glLoner")
	if got := m.Root(loner); got != loner {
		t.Errorf("Root(glLoner) = %s, want itself", got.Name)
	}

	// Root of a root is itself, and a second pass changes nothing.
	if got := m.Root(root); got != root {
		t.Errorf("Root(Root(f)) = %s, want glRoot", got.Name)
	}
	if err := m.ResolveAliases(); err != nil {
		t.Fatalf("second ResolveAliases: %v", err)
	}
	if len(m.Dependents(root)) != 2 {
		t.Error("second resolve pass must not duplicate dependents")
	}
}

func TestResolveAliasesThroughResolvedNode(t *testing.T) {
	t.Parallel()

	// Arena order puts the root first, so glMid is parented by its own
	// chain before glLeaf's walk reaches it. The leaf walk stops at the
	// already-parented node and must not re-append it.
	m := newTestModel(t,
		NewFunction("glRoot", "void", nil, ""),
		NewFunction("glMid", "void", nil, "glRoot"),
		NewFunction("glLeaf", "void", nil, "glMid"),
	)
	if err := m.ResolveAliases(); err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}

	root, _ := m.Lookup("glRoot")
	deps := m.Dependents(root)
	want := []string{"glMid", "glLeaf"}
	if len(deps) != len(want) {
		t.Fatalf("len(Dependents) = %d, want %d", len(deps), len(want))
	}
	for i, d := range deps {
		if d.Name != want[i] {
			t.Errorf("Dependents[%d] = %s, want %s", i, d.Name, want[i])
		}
	}

	// Each dependent contributes its bindings once, so the plan holds
	// one candidate per function.
	in := NewInterner()
	for _, name := range []string{"glRoot", "glMid", "glLeaf"} {
		f, _ := m.Lookup(name)
		f.AddBinding("Desktop OpenGL 1.0", "epoxy_is_desktop_gl()",
			"epoxy_get_core_proc_address({0}, 10)", f.Name)
	}
	if err := m.InternProviders(in); err != nil {
		t.Fatalf("InternProviders: %v", err)
	}
	plan := m.PlanFor(root, nil)
	if len(plan.Candidates) != 3 {
		t.Fatalf("len(Candidates) = %d, want 3", len(plan.Candidates))
	}
	seen := map[string]bool{}
	for _, c := range plan.Candidates {
		if seen[c.Entry] {
			t.Errorf("candidate %s planned twice", c.Entry)
		}
		seen[c.Entry] = true
	}
}

func TestResolveAliasesCycle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t,
		NewFunction("glA", "void", nil, "glB"),
		NewFunction("glB", "void", nil, "glC"),
		NewFunction("glC", "void", nil, "glA"),
	)
	err := m.ResolveAliases()
	if !errors.Is(err, ErrAliasCycle) {
		t.Fatalf("err = %v, want ErrAliasCycle", err)
	}
	var ce *AliasCycleError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T, want *AliasCycleError", err)
	}
	if len(ce.Chain) != 4 || ce.Chain[0] != ce.Chain[3] {
		t.Errorf("Chain = %v, want a closed loop", ce.Chain)
	}
}

func TestResolveAliasesUndeclaredTarget(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, NewFunction("glA", "void", nil, "glMissing"))
	err := m.ResolveAliases()
	if !errors.Is(err, ErrUndeclaredAlias) {
		t.Fatalf("err = %v, want ErrUndeclaredAlias", err)
	}
}

func TestResolveAliasesDroppedTargetReroots(t *testing.T) {
	t.Parallel()

	m := newTestModel(t,
		NewFunction("glKept", "void", nil, "glFiltered"),
		NewFunction("glFiltered", "void", nil, ""),
	)
	m.Drop("glFiltered")
	if err := m.ResolveAliases(); err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	kept, _ := m.Lookup("glKept")
	if got := m.Root(kept); got != kept {
		t.Errorf("Root(glKept) = %s, want itself after target was filtered", got.Name)
	}
}
