// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputPath is returned when a directory setting is whitespace-only.
	ErrInvalidOutputPath = errors.New("invalid output path")
	// ErrNoEmitters is returned when every emitter is disabled.
	ErrNoEmitters = errors.New("no emitters enabled")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// EmitConfig selects which emitters run when the command line doesn't
	// say otherwise.
	EmitConfig struct {
		Header bool `mapstructure:"header"`
		Source bool `mapstructure:"source"`
		Vapi   bool `mapstructure:"vapi"`
	}

	// UIConfig holds terminal presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// Config is the root configuration.
	Config struct {
		// OutputDir receives both headers and sources when the split
		// directories below are unset.
		OutputDir string `mapstructure:"outputdir"`
		// IncludeDir receives generated headers.
		IncludeDir string `mapstructure:"includedir"`
		// SrcDir receives generated sources.
		SrcDir string `mapstructure:"srcdir"`
		// Profile points at a CUE provider-profile override. Empty
		// means the built-in profile.
		Profile string `mapstructure:"profile"`

		Emit EmitConfig `mapstructure:"emit"`
		UI   UIConfig   `mapstructure:"ui"`
	}
)

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// Validate checks that the scheme is one of the recognized values.
func (s ColorScheme) Validate() error {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: s}
	}
}

// Validate checks constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	if err := c.UI.ColorScheme.Validate(); err != nil {
		return err
	}
	for _, dir := range []struct{ name, value string }{
		{"outputdir", c.OutputDir},
		{"includedir", c.IncludeDir},
		{"srcdir", c.SrcDir},
		{"profile", c.Profile},
	} {
		if dir.value != "" && strings.TrimSpace(dir.value) == "" {
			return fmt.Errorf("%s: %w", dir.name, ErrInvalidOutputPath)
		}
	}
	if !c.Emit.Header && !c.Emit.Source && !c.Emit.Vapi {
		return ErrNoEmitters
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Emit: EmitConfig{
			Header: true,
			Source: true,
			Vapi:   false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
