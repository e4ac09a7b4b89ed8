// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAliasCycle reports alias declarations that form a loop.
	ErrAliasCycle = errors.New("alias cycle")

	// ErrUndeclaredAlias reports an alias target that names no command.
	ErrUndeclaredAlias = errors.New("undeclared alias target")
)

// AliasCycleError carries the offending chain, starting at the function
// whose resolution uncovered the cycle.
type AliasCycleError struct {
	Chain []string
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("alias cycle: %s", strings.Join(e.Chain, " -> "))
}

func (e *AliasCycleError) Unwrap() error {
	return ErrAliasCycle
}

// ResolveAliases flattens every alias chain to its root. Afterwards each
// function's AliasName names its root directly, each root lists its
// dependent aliases, and resolving twice is a no-op. An alias target
// removed by a filter dangles; the chain is rerooted at the function
// closest to the gap, mirroring how a filtered registry simply has fewer
// commands.
func (m *Model) ResolveAliases() error {
	for i, f := range m.funcs {
		if f == nil || f.root >= 0 {
			continue
		}
		if f.AliasName == f.Name {
			f.root = i
			continue
		}
		if err := m.resolveChain(i); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) resolveChain(start int) error {
	var (
		path = []int{start}
		seen = map[int]bool{start: true}
		cur  = m.funcs[start]
		root int
	)
	for {
		if cur.AliasName == cur.Name {
			root = cur.index
			break
		}
		if cur.root >= 0 {
			root = cur.root
			break
		}
		next, ok := m.byName[cur.AliasName]
		if !ok {
			if m.dropped[cur.AliasName] {
				root = cur.index
				break
			}
			return fmt.Errorf("function %s: %w %q",
				cur.Name, ErrUndeclaredAlias, cur.AliasName)
		}
		if seen[next] {
			chain := make([]string, 0, len(path)+1)
			for _, idx := range path {
				chain = append(chain, m.funcs[idx].Name)
			}
			chain = append(chain, m.funcs[next].Name)
			return &AliasCycleError{Chain: chain}
		}
		seen[next] = true
		path = append(path, next)
		cur = m.funcs[next]
	}
	rootFn := m.funcs[root]
	rootFn.root = root
	rootFn.AliasName = rootFn.Name
	for _, idx := range path {
		n := m.funcs[idx]
		// A walk may stop at a node an earlier chain already parented;
		// that node is on the path but must not be re-appended.
		if idx == root || n.root >= 0 {
			continue
		}
		n.root = root
		n.AliasName = rootFn.Name
		rootFn.aliases = append(rootFn.aliases, idx)
	}
	return nil
}
