// SPDX-License-Identifier: MIT

package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-shinder/libepoxy/internal/gen"
	"github.com/m-shinder/libepoxy/pkg/glregistry"
)

// testRegistry models enough of gl.xml to exercise every emitter path: a
// bootstrap function, a plain entry point with a grouped parameter, a
// wrapped entry point, a no-argument entry point, a near-alias pair, and
// a declared command nothing provides.
func testRegistry() *glregistry.Registry {
	return &glregistry.Registry{
		Comment: "Copyright 2013-2021 The Khronos Group Inc.\n" +
			"SPDX-License-Identifier: Apache-2.0\n" +
			"------------------------------------------------\n" +
			"post-divider text that must not be reproduced",
		Typedefs: []glregistry.Typedef{
			{Prefix: "typedef unsigned int ", Name: "GLenum", Postfix: ";"},
			{Prefix: "typedef void *", Name: "GLeglImageOES", Postfix: ";"},
			{Prefix: "typedef void (", Name: "GLDEBUGPROC", Postfix: ")(GLenum source);", APIEntry: true},
		},
		Enums: map[string]string{
			"GL_FALSE":            "0",
			"GL_TRUE":             "1",
			"GL_COLOR_BUFFER_BIT": "0x00004000",
		},
		MaxEnumNameLen: len("GL_COLOR_BUFFER_BIT"),
		Groups: map[string][]string{
			"ClearBufferMask": {"GL_COLOR_BUFFER_BIT"},
		},
		Commands: []glregistry.Command{
			{Name: "glGetString", ReturnType: "const GLubyte *",
				Params: []glregistry.Param{{Type: "GLenum", Name: "name"}}},
			{Name: "glClear", ReturnType: "void",
				Params: []glregistry.Param{{Type: "GLbitfield", Name: "mask", Group: "ClearBufferMask"}}},
			{Name: "glBegin", ReturnType: "void",
				Params: []glregistry.Param{{Type: "GLenum", Name: "mode"}}},
			{Name: "glFlush", ReturnType: "void"},
			{Name: "glBindFramebuffer", ReturnType: "void",
				Params: []glregistry.Param{{Type: "GLenum", Name: "target"}, {Type: "GLuint", Name: "framebuffer"}}},
			{Name: "glBindFramebufferEXT", ReturnType: "void",
				Params: []glregistry.Param{{Type: "GLenum", Name: "target"}, {Type: "GLuint", Name: "framebuffer"}}},
			{Name: "glOrphan", ReturnType: "void"},
		},
		Features: []glregistry.Feature{
			{API: "gl", Name: "GL_VERSION_1_0", Number: "1.0", Version: 10,
				Commands: []string{"glGetString", "glClear", "glBegin", "glFlush"}},
			{API: "gl", Name: "GL_VERSION_3_0", Number: "3.0", Version: 30,
				Commands: []string{"glBindFramebuffer"}},
		},
		Extensions: []glregistry.Extension{
			{Name: "GL_EXT_framebuffer_object", Supported: []string{"gl"},
				Commands: []string{"glBindFramebufferEXT"}},
		},
	}
}

func wglRegistry() *glregistry.Registry {
	return &glregistry.Registry{
		Commands: []glregistry.Command{
			{Name: "wglCreateContext", ReturnType: "HGLRC",
				Params: []glregistry.Param{{Type: "HDC", Name: "hDc"}}},
		},
		Features: []glregistry.Feature{
			{API: "wgl", Name: "WGL_VERSION_1_0", Number: "1.0", Version: 10,
				Commands: []string{"wglCreateContext"}},
		},
	}
}

func runGL(t *testing.T) *gen.Result {
	t.Helper()
	res, err := gen.Run("gl", testRegistry(), gen.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func render(t *testing.T, emitFn func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := emitFn(&buf); err != nil {
		t.Fatalf("emit: %v", err)
	}
	return buf.String()
}

func wantContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestFileNames(t *testing.T) {
	t.Parallel()

	if got := HeaderFileName("egl"); got != "egl_generated.h" {
		t.Errorf("HeaderFileName = %q", got)
	}
	if got := SourceFileName("glx"); got != "glx_generated_dispatch.c" {
		t.Errorf("SourceFileName = %q", got)
	}
	if got := VapiFileName("gl"); got != "gl_generated.vapi" {
		t.Errorf("VapiFileName = %q", got)
	}
}
