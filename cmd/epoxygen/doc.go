// SPDX-License-Identifier: MIT

// Package cmd contains all CLI commands for epoxygen.
//
// This package implements the Cobra command hierarchy for the epoxygen
// CLI: the root command, the generate command that renders dispatch code
// from Khronos registry XML, the inspect command for examining a planned
// model, and the config command tree.
package cmd
