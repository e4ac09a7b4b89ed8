// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/m-shinder/libepoxy/internal/config"
	"github.com/m-shinder/libepoxy/internal/emit"
	"github.com/m-shinder/libepoxy/internal/gen"
	"github.com/m-shinder/libepoxy/internal/issue"
	"github.com/m-shinder/libepoxy/pkg/glprofile"

	"github.com/spf13/cobra"
)

var (
	genOutputDir  string
	genIncludeDir string
	genSrcDir     string
	genProfile    string
	genHeader     bool
	genSource     bool
	genVapi       bool

	generateCmd = &cobra.Command{
		Use:   "generate <registry.xml> [registry.xml...]",
		Short: "Generate dispatch code from registry XML files",
		Long: `Generate dispatch code from Khronos registry XML files.

Each registry file produces a header of public function pointers
(<target>_generated.h), a source file of lazily-resolving thunks
(<target>_generated_dispatch.c), and optionally a Vala binding
(<target>_generated.vapi). The target name is the registry file's base
name, so gl.xml generates the gl dispatch layer.

When no emitter flag is given, the header and the source are generated.
Headers and Vala bindings go to --includedir, sources to --srcdir, both
of which default to --outputdir.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVar(&genOutputDir, "outputdir", "", "default directory for generated files (default is the working directory)")
	generateCmd.Flags().StringVar(&genIncludeDir, "includedir", "", "directory for generated headers and VAPI files")
	generateCmd.Flags().StringVar(&genSrcDir, "srcdir", "", "directory for generated sources")
	generateCmd.Flags().StringVar(&genProfile, "profile", "", "CUE provider-profile override")
	generateCmd.Flags().BoolVar(&genHeader, "header", false, "generate the C header")
	generateCmd.Flags().BoolVar(&genSource, "source", false, "generate the C source")
	generateCmd.Flags().BoolVar(&genVapi, "vapi", false, "generate the Vala binding")
}

// genSettings is the flag/config merge for one generate invocation.
type genSettings struct {
	includeDir string
	srcDir     string
	profile    *glprofile.Profile
	header     bool
	source     bool
	vapi       bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	s, err := resolveGenSettings(cmd, cfg)
	if err != nil {
		return err
	}

	for _, path := range args {
		if err := generateOne(path, s); err != nil {
			return err
		}
	}
	return nil
}

// resolveGenSettings merges flags over configuration. A flag set on the
// command line wins; the configuration supplies defaults.
func resolveGenSettings(cmd *cobra.Command, cfg *config.Config) (*genSettings, error) {
	outputDir := cfg.OutputDir
	if cmd.Flags().Changed("outputdir") {
		outputDir = genOutputDir
	}
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		outputDir = wd
	}

	s := &genSettings{
		includeDir: outputDir,
		srcDir:     outputDir,
	}
	if cfg.IncludeDir != "" {
		s.includeDir = cfg.IncludeDir
	}
	if cmd.Flags().Changed("includedir") {
		s.includeDir = genIncludeDir
	}
	if cfg.SrcDir != "" {
		s.srcDir = cfg.SrcDir
	}
	if cmd.Flags().Changed("srcdir") {
		s.srcDir = genSrcDir
	}

	s.header = cfg.Emit.Header
	s.source = cfg.Emit.Source
	s.vapi = cfg.Emit.Vapi
	if cmd.Flags().Changed("header") {
		s.header = genHeader
	}
	if cmd.Flags().Changed("source") {
		s.source = genSource
	}
	if cmd.Flags().Changed("vapi") {
		s.vapi = genVapi
	}
	if !s.header && !s.source && !s.vapi {
		s.header = true
		s.source = true
	}

	profilePath := cfg.Profile
	if cmd.Flags().Changed("profile") {
		profilePath = genProfile
	}
	if profilePath != "" {
		p, err := glprofile.LoadFile(profilePath)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load provider profile").
				WithResource(profilePath).
				WithSuggestion("Check the profile against the schema with: epoxygen inspect --profile " + profilePath).
				WithIssue(issue.ProfileLoadFailedId).
				Wrap(err).
				BuildError()
		}
		s.profile = p
	}
	return s, nil
}

func generateOne(path string, s *genSettings) error {
	res, err := gen.RunFile(path, gen.Options{Profile: s.profile})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse registry").
			WithResource(path).
			WithSuggestion("Registry XML files are published at https://github.com/KhronosGroup/OpenGL-Registry").
			WithIssue(issue.RegistryParseErrorId).
			Wrap(err).
			BuildError()
	}

	if s.header {
		name := filepath.Join(s.includeDir, emit.HeaderFileName(res.Target))
		if err := writeGenerated(name, func(w io.Writer) error { return emit.Header(w, res) }); err != nil {
			return err
		}
	}
	if s.source {
		name := filepath.Join(s.srcDir, emit.SourceFileName(res.Target))
		if err := writeGenerated(name, func(w io.Writer) error { return emit.Source(w, res) }); err != nil {
			return err
		}
	}
	if s.vapi {
		name := filepath.Join(s.includeDir, emit.VapiFileName(res.Target))
		if err := writeGenerated(name, func(w io.Writer) error { return emit.Vapi(w, res) }); err != nil {
			return err
		}
	}
	return nil
}

func writeGenerated(path string, emitFn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrapWriteError(path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return wrapWriteError(path, err)
	}
	if err := emitFn(f); err != nil {
		f.Close()
		return wrapWriteError(path, err)
	}
	if err := f.Close(); err != nil {
		return wrapWriteError(path, err)
	}
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), FileStyle.Render(path))
	return nil
}

func wrapWriteError(path string, err error) error {
	if errors.Is(err, emit.ErrEnumOffsetOverflow) {
		rendered, _ := issue.Get(issue.EnumOffsetOverflowId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
	}
	return issue.NewErrorContext().
		WithOperation("write generated file").
		WithResource(path).
		WithIssue(issue.OutputWriteFailedId).
		Wrap(err).
		BuildError()
}
