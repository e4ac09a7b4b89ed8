// SPDX-License-Identifier: MIT

// Package dispatch holds the dispatch model: the arena of functions built
// from a parsed registry, the provider interning table, alias-chain
// flattening, and the resolution planner that decides, per function, the
// ordered list of providers its first call will try.
//
// The model is built once per target, is immutable after planning, and is
// only read by emitters. The package also models the lazy
// dispatch contract the emitted code must honor (Slot, Table, Plan.Resolve)
// so the run-time semantics are executable in tests.
package dispatch
