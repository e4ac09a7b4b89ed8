// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// Param is a single formal parameter of a dispatched function. Group
	// carries the semantic enum group for GLenum/GLbitfield parameters;
	// only the Vala binding emitter consumes it.
	Param struct {
		Type  string
		Name  string
		Group string
	}

	// Function is one entry in the dispatch model. Exactly one Function
	// exists per command name; alias relationships are expressed through
	// the arena, never by duplicating entries.
	Function struct {
		// Name is the public entry point name, e.g. "glBindTexture".
		Name string

		// ReturnType is the verbatim C return type, e.g. "void" or
		// "const GLubyte *".
		ReturnType string

		Params []Param

		// AliasName names the command this function is an alias of.
		// A root function aliases itself. After ResolveAliases the
		// field always names the root of the chain.
		AliasName string

		// Wrapped marks functions whose real work lives in a
		// hand-written wrapper; the generated symbol is demoted to
		// the "_unwrapped" name and loses public linkage.
		Wrapped bool

		index    int
		root     int
		aliases  []int
		bindings []Binding
		byLabel  map[string]int
	}

	// Model is the arena of functions. Index positions are stable for
	// the lifetime of the model; removed functions leave tombstones so
	// indices held elsewhere never shift.
	Model struct {
		funcs   []*Function
		byName  map[string]int
		dropped map[string]bool
	}
)

// NewModel returns an empty arena.
func NewModel() *Model {
	return &Model{
		byName:  make(map[string]int),
		dropped: make(map[string]bool),
	}
}

// NewFunction builds an unattached Function. If aliasName is empty the
// function is its own root.
func NewFunction(name, returnType string, params []Param, aliasName string) *Function {
	if aliasName == "" {
		aliasName = name
	}
	return &Function{
		Name:       name,
		ReturnType: returnType,
		Params:     params,
		AliasName:  aliasName,
		root:       -1,
		byLabel:    make(map[string]int),
	}
}

// Add places f into the arena. Function names are unique; adding a
// duplicate is a hard error.
func (m *Model) Add(f *Function) error {
	if _, ok := m.byName[f.Name]; ok {
		return fmt.Errorf("duplicate function %q in dispatch model", f.Name)
	}
	f.index = len(m.funcs)
	m.funcs = append(m.funcs, f)
	m.byName[f.Name] = f.index
	return nil
}

// Lookup finds a live function by name.
func (m *Model) Lookup(name string) (*Function, bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.funcs[i], true
}

// Drop removes name from the model and remembers that it was deliberately
// filtered out, so later references to it can be told apart from genuinely
// undeclared commands. Dropping must happen before ResolveAliases.
func (m *Model) Drop(name string) {
	i, ok := m.byName[name]
	if !ok {
		return
	}
	m.funcs[i] = nil
	delete(m.byName, name)
	m.dropped[name] = true
}

// Dropped reports whether name was removed by a filter.
func (m *Model) Dropped(name string) bool {
	return m.dropped[name]
}

// Len counts live functions.
func (m *Model) Len() int {
	return len(m.byName)
}

// Functions returns the live functions in insertion order.
func (m *Model) Functions() []*Function {
	out := make([]*Function, 0, len(m.byName))
	for _, f := range m.funcs {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// SortedFunctions returns the live functions ordered by name. Emitters
// iterate this so output never depends on registry file order.
func (m *Model) SortedFunctions() []*Function {
	out := m.Functions()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Root returns the root of f's alias chain. Valid after ResolveAliases.
func (m *Model) Root(f *Function) *Function {
	if f.root < 0 {
		return f
	}
	return m.funcs[f.root]
}

// Dependents returns the functions whose alias chains terminate at root,
// excluding root itself.
func (m *Model) Dependents(root *Function) []*Function {
	out := make([]*Function, 0, len(root.aliases))
	for _, i := range root.aliases {
		if m.funcs[i] != nil {
			out = append(out, m.funcs[i])
		}
	}
	return out
}

// WrappedName is the symbol the generated code defines for f. Wrapped
// functions yield their name to a hand-written wrapper.
func (f *Function) WrappedName() string {
	if f.Wrapped {
		return f.Name + "_unwrapped"
	}
	return f.Name
}

// Public reports whether the generated symbol keeps public linkage.
func (f *Function) Public() bool {
	return !f.Wrapped
}

// PtrType is the function-pointer typedef name for f.
func (f *Function) PtrType() string {
	return "PFN" + strings.ToUpper(f.Name) + "PROC"
}

// ArgsDecl renders the parameter declaration list, or "void" for a
// parameterless function.
func (f *Function) ArgsDecl() string {
	if len(f.Params) == 0 {
		return "void"
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

// ArgsList renders the argument forwarding list. GLhandleARB arguments are
// routed through (uintptr_t): the type is a pointer on macOS and an
// unsigned int elsewhere, and forwarding between aliased entry points must
// not trip -Werror on the pointer/integer mismatch. Such arguments only
// occur within the first six positions, where the cast is free under the
// SysV ABI.
func (f *Function) ArgsList() string {
	if len(f.Params) == 0 {
		return ""
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Type == "GLhandleARB" {
			parts[i] = "(uintptr_t)" + p.Name
		} else {
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, ", ")
}
