// SPDX-License-Identifier: MIT

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-shinder/libepoxy/internal/config"

	"github.com/spf13/cobra"
)

const miniGLXML = `<?xml version="1.0" encoding="UTF-8"?>
<registry>
    <comment>Copyright 2026 Test</comment>
    <types>
        <type>typedef unsigned int <name>GLbitfield</name>;</type>
    </types>
    <enums namespace="GL">
        <enum value="0x00004000" name="GL_COLOR_BUFFER_BIT" group="ClearBufferMask"/>
    </enums>
    <commands namespace="GL">
        <command>
            <proto>void <name>glClear</name></proto>
            <param group="ClearBufferMask"><ptype>GLbitfield</ptype> <name>mask</name></param>
        </command>
    </commands>
    <feature api="gl" name="GL_VERSION_1_0" number="1.0">
        <require>
            <command name="glClear"/>
        </require>
    </feature>
</registry>`

// freshGenerateCmd returns a command with the generate flag set declared
// but untouched, so resolveGenSettings sees no flag as changed.
func freshGenerateCmd() *cobra.Command {
	c := &cobra.Command{Use: "generate"}
	c.Flags().StringVar(new(string), "outputdir", "", "")
	c.Flags().StringVar(new(string), "includedir", "", "")
	c.Flags().StringVar(new(string), "srcdir", "", "")
	c.Flags().StringVar(new(string), "profile", "", "")
	c.Flags().BoolVar(new(bool), "header", false, "")
	c.Flags().BoolVar(new(bool), "source", false, "")
	c.Flags().BoolVar(new(bool), "vapi", false, "")
	return c
}

func TestResolveGenSettings(t *testing.T) {
	t.Parallel()

	t.Run("config dirs flow through", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.OutputDir = "/tmp/out"
		cfg.SrcDir = "/tmp/src"

		s, err := resolveGenSettings(freshGenerateCmd(), cfg)
		if err != nil {
			t.Fatalf("resolveGenSettings: %v", err)
		}
		if s.includeDir != "/tmp/out" {
			t.Errorf("includeDir = %q, want outputdir fallback", s.includeDir)
		}
		if s.srcDir != "/tmp/src" {
			t.Errorf("srcDir = %q", s.srcDir)
		}
	})

	t.Run("default emitters are header and source", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.OutputDir = "/tmp/out"
		cfg.Emit.Header = false
		cfg.Emit.Source = false
		cfg.Emit.Vapi = false

		s, err := resolveGenSettings(freshGenerateCmd(), cfg)
		if err != nil {
			t.Fatalf("resolveGenSettings: %v", err)
		}
		if !s.header || !s.source || s.vapi {
			t.Errorf("emitters = header %v source %v vapi %v", s.header, s.source, s.vapi)
		}
	})

	t.Run("empty outputdir falls back to working directory", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()

		s, err := resolveGenSettings(freshGenerateCmd(), cfg)
		if err != nil {
			t.Fatalf("resolveGenSettings: %v", err)
		}
		wd, _ := os.Getwd()
		if s.includeDir != wd || s.srcDir != wd {
			t.Errorf("dirs = %q / %q, want %q", s.includeDir, s.srcDir, wd)
		}
	})
}

func TestGenerateOne(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	regPath := filepath.Join(dir, "gl.xml")
	if err := os.WriteFile(regPath, []byte(miniGLXML), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	incDir := filepath.Join(dir, "include")
	srcDir := filepath.Join(dir, "src")
	s := &genSettings{
		includeDir: incDir,
		srcDir:     srcDir,
		header:     true,
		source:     true,
		vapi:       true,
	}

	if err := generateOne(regPath, s); err != nil {
		t.Fatalf("generateOne: %v", err)
	}

	header, err := os.ReadFile(filepath.Join(incDir, "gl_generated.h"))
	if err != nil {
		t.Fatalf("header not written: %v", err)
	}
	if !strings.Contains(string(header), "#define glClear epoxy_glClear") {
		t.Error("header missing dispatch macro")
	}

	source, err := os.ReadFile(filepath.Join(srcDir, "gl_generated_dispatch.c"))
	if err != nil {
		t.Fatalf("source not written: %v", err)
	}
	if !strings.Contains(string(source), "GEN_THUNKS(glClear, (GLbitfield mask), (mask))") {
		t.Error("source missing thunk")
	}

	vapi, err := os.ReadFile(filepath.Join(incDir, "gl_generated.vapi"))
	if err != nil {
		t.Fatalf("vapi not written: %v", err)
	}
	if !strings.Contains(string(vapi), "public void glClear(ClearBufferMask mask);") {
		t.Error("vapi missing grouped declaration")
	}
}

func TestGenerateOneMissingRegistry(t *testing.T) {
	t.Parallel()

	s := &genSettings{includeDir: t.TempDir(), srcDir: t.TempDir(), header: true}
	if err := generateOne(filepath.Join(t.TempDir(), "nope.xml"), s); err == nil {
		t.Fatal("expected error for missing registry file")
	}
}
