// SPDX-License-Identifier: MIT

// Package emit renders a planned dispatch model into output files: the C
// header with defines and public pointer declarations, the C source with
// the shared provider tables, resolvers and thunks, and the Vala binding.
// Emitters read the gen.Result and write to io.Writer; they never mutate
// the model, so the same result can feed every emitter.
package emit
