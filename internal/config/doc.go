// SPDX-License-Identifier: MIT

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/epoxygen/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/epoxygen/config.cue on macOS, %APPDATA%\epoxygen\config.cue
// on Windows). It covers output directory layout, which emitters run by default, the
// provider profile override, and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
