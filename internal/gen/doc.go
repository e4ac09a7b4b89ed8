// SPDX-License-Identifier: MIT

// Package gen runs the generation pipeline: a parsed registry plus a
// provider profile in, a fully planned dispatch model out. The pipeline
// builds the function arena, applies the command filters, attaches
// feature and extension provider bindings, pins the bootstrap functions,
// flattens alias chains, interns providers, and computes resolution
// plans. Emitters consume the Result; the pipeline itself writes nothing.
package gen
