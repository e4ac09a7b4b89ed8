// SPDX-License-Identifier: MIT

// Package glprofile supplies the per-family generation policy: which
// availability condition and loader mechanism each version feature and
// extension maps to, which commands are wrapped, blocked, or filtered,
// and the near-alias compatibility table.
//
// None of this is derivable from the registry schema; it is registry
// trivia that must be supplied verbatim. The policy therefore lives as
// data in an embedded CUE document validated against a CUE schema, and a
// custom profile file can be supplied to override it wholesale.
package glprofile
